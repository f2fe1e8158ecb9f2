package email

import (
	"context"

	"dispatchhub_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// SMTPProvider delivers mail through a plain SMTP relay.
type SMTPProvider struct {
	dialer    *gomail.Dialer
	fromEmail string
	fromName  string
}

func NewSMTPProvider(cfg *config.Config) *SMTPProvider {
	return &SMTPProvider{
		dialer: gomail.NewDialer(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUsername,
			cfg.Email.SMTPPassword,
		),
		fromEmail: cfg.Email.FromEmail,
		fromName:  cfg.Email.FromName,
	}
}

func (p *SMTPProvider) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.fromEmail, p.fromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.HTML {
		m.SetBody("text/html", msg.Body)
	} else {
		m.SetBody("text/plain", msg.Body)
	}

	return p.dialer.DialAndSend(m)
}
