package constants

// HTTP Header Names
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
)

// BearerPrefix starts an Authorization header carrying a token
const BearerPrefix = "Bearer "

// HTTP Content Types
const (
	ContentTypeJSON = "application/json"
)
