package middleware

import (
	"io"
	"time"

	"github.com/Payphone-Digital/chirpy/internal/constants"
	apperrors "github.com/Payphone-Digital/chirpy/internal/errors"
	"github.com/Payphone-Digital/chirpy/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoggingMiddleware logs every request through zap instead of gin's writer.
func LoggingMiddleware() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			requestID, _ := param.Keys[constants.GinKeyRequestID].(string)

			logger.LogRequest(
				param.Method,
				param.Path,
				param.StatusCode,
				param.Latency.Milliseconds(),
				param.ClientIP,
				requestID,
			)

			if param.Latency > 2*time.Second {
				logger.GetLogger().Warn("Slow request detected",
					zap.String("method", param.Method),
					zap.String("path", param.Path),
					zap.Duration("latency", param.Latency),
					zap.String("request_id", requestID),
				)
			}

			return ""
		},
		Output: io.Discard,
	})
}

// RecoveryMiddleware logs panics and answers with the internal error body.
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.LogPanic(recovered)

		c.AbortWithStatusJSON(apperrors.ToHTTPStatus(apperrors.ErrInternal), gin.H{
			constants.ResponseFieldError:   apperrors.ErrInternal.Code,
			constants.ResponseFieldMessage: apperrors.ErrInternal.Message,
		})
	})
}
