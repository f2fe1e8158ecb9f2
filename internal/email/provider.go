package email

import "context"

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
	HTML    bool
}

// Provider sends email. Delivery failures are logged by callers, never
// surfaced to API clients.
type Provider interface {
	Send(ctx context.Context, msg *Message) error
}
