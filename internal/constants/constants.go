package constants

const (
	// Context and session keys
	ContextKeyUserID    = "user_id"
	ContextKeyUser      = "user"
	ContextKeyRequestID = "request_id"

	SessionCookieName = "task_session"
	RequestIDHeader   = "X-Request-ID"

	// Password rules
	MinPasswordLength = 8
	SaltLength        = 16
)
