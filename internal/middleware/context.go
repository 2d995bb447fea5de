package middleware

import (
	"context"
	"time"

	"github.com/Payphone-Digital/chirpy/internal/constants"
	ctxutil "github.com/Payphone-Digital/chirpy/pkg/context"
	"github.com/Payphone-Digital/chirpy/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextMiddleware attaches the request id, client ip and start time to the
// request context. An incoming X-Request-ID is kept, otherwise one is
// generated and echoed back.
func ContextMiddleware(module string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := ctxutil.WithRequestID(c.Request.Context(), requestID)
		ctx = ctxutil.WithClientIP(ctx, c.ClientIP())
		ctx = ctxutil.NewContextWithRequest(ctx, c.Request, module, c.FullPath())

		c.Request = c.Request.WithContext(ctx)
		c.Set(constants.GinKeyRequestID, requestID)
		c.Header(constants.HeaderXRequestID, requestID)

		logger.DebugWithContext(ctx, "Request started").
			Method(c.Request.Method).
			Path(c.Request.URL.Path).
			String("query", c.Request.URL.RawQuery).
			Log()

		c.Next()

		logger.DebugWithContext(c.Request.Context(), "Request completed").
			Method(c.Request.Method).
			Path(c.Request.URL.Path).
			StatusCode(c.Writer.Status()).
			Int("response_size", c.Writer.Size()).
			Duration(ctxutil.GetDuration(ctx)).
			Log()
	}
}

// RequestTimeoutMiddleware bounds the request context by timeout.
func RequestTimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
