package contextkeys

// Custom type to avoid collisions with other context values.
type contextKey string

const (
	// RequestIDKey holds the per-request correlation id.
	RequestIDKey = contextKey("request_id")
	// UserIDKey holds the authenticated user's id.
	UserIDKey = contextKey("user_id")
)
