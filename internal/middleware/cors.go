package middleware

import (
	"net/http"

	"github.com/Payphone-Digital/chirpy/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			logger.GetLogger().Debug("CORS preflight request handled",
				zap.String("client_ip", c.ClientIP()),
				zap.String("origin", c.GetHeader("Origin")),
			)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
