package constants

// Session and context keys
const (
	SessionCookieName = "todolist_session"
	ContextKeyUserID  = "user_id"
)

// Password rules
const (
	MinPasswordLength = 8
)

// Pagination defaults
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
