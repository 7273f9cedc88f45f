package constants

const (
	// Session
	SessionCookieName   = "duty_session"
	ContextKeyUsername  = "username"
	ContextKeyRequestID = "request_id"

	// Accounts
	MinPasswordLength = 8

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Duty suggestions
	MaxAIGeneratedDuties = 20
)
