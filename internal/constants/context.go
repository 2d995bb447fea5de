package constants

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// Context Keys for request tracking and metadata
const (
	CtxKeyRequestID ContextKey = "request_id"
	CtxKeyUserID    ContextKey = "user_id"
	CtxKeyClientIP  ContextKey = "client_ip"
	CtxKeyStartTime ContextKey = "start_time"
	CtxKeyModule    ContextKey = "module"
	CtxKeyFunction  ContextKey = "function"
)

// Gin context keys set by middleware
const (
	GinKeyRequestID = "request_id"
	GinKeyIdentity  = "user"
)
