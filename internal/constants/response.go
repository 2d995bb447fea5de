package constants

// Error response field keys
const (
	ResponseFieldError     = "err"
	ResponseFieldMessage   = "msg"
	ResponseFieldOK        = "ok"
	ResponseFieldTimestamp = "ts"
)
