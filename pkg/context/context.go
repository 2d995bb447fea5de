package ctxutil

import (
	"context"
	"net/http"
	"time"

	"github.com/Payphone-Digital/chirpy/internal/constants"
)

// Re-export ContextKey type
type ContextKey = constants.ContextKey

// Re-export context keys
const (
	RequestIDKey = constants.CtxKeyRequestID
	UserIDKey    = constants.CtxKeyUserID
	ClientIPKey  = constants.CtxKeyClientIP
	StartTimeKey = constants.CtxKeyStartTime
	ModuleKey    = constants.CtxKeyModule
	FunctionKey  = constants.CtxKeyFunction
)

// WithRequestID adds the request id to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithClientIP adds the caller address to context
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ClientIPKey, ip)
}

// WithUserID adds user ID to context
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// Getter functions
func GetRequestID(ctx context.Context) string {
	if val, ok := ctx.Value(RequestIDKey).(string); ok {
		return val
	}
	return ""
}

func GetClientIP(ctx context.Context) string {
	if val, ok := ctx.Value(ClientIPKey).(string); ok {
		return val
	}
	return ""
}

func GetUserIDUint(ctx context.Context) (uint, bool) {
	if val, ok := ctx.Value(UserIDKey).(uint); ok {
		return val, true
	}
	return 0, false
}

func GetStartTime(ctx context.Context) time.Time {
	if val, ok := ctx.Value(StartTimeKey).(time.Time); ok {
		return val
	}
	return time.Time{}
}

func GetModule(ctx context.Context) string {
	if val, ok := ctx.Value(ModuleKey).(string); ok {
		return val
	}
	return ""
}

func GetFunction(ctx context.Context) string {
	if val, ok := ctx.Value(FunctionKey).(string); ok {
		return val
	}
	return ""
}

// GetDuration calculates duration from start time
func GetDuration(ctx context.Context) time.Duration {
	startTime := GetStartTime(ctx)
	if !startTime.IsZero() {
		return time.Since(startTime)
	}
	return 0
}

// WithFunction tags ctx with the layer and function for log lines
func WithFunction(ctx context.Context, module, function string) context.Context {
	ctx = context.WithValue(ctx, ModuleKey, module)
	return context.WithValue(ctx, FunctionKey, function)
}

// NewContextWithRequest creates the per-call context a handler passes down.
// Request metadata stored by ContextMiddleware is already on req's context.
func NewContextWithRequest(ctx context.Context, req *http.Request, module, function string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	if req != nil && GetClientIP(ctx) == "" {
		ctx = WithClientIP(ctx, req.RemoteAddr)
	}

	ctx = WithFunction(ctx, module, function)

	if GetStartTime(ctx).IsZero() {
		ctx = context.WithValue(ctx, StartTimeKey, time.Now())
	}

	return ctx
}
