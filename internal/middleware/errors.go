package middleware

import (
	"time"

	"github.com/Payphone-Digital/chirpy/internal/constants"
	apperrors "github.com/Payphone-Digital/chirpy/internal/errors"
	"github.com/Payphone-Digital/chirpy/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error recorded on the context. Handlers
// call c.Error and abort; they never write error bodies themselves.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		ctx := c.Request.Context()

		domainErr := apperrors.GetDomainError(err)
		if domainErr == nil {
			logger.ErrorWithContext(ctx, "Unhandled error").
				Path(c.Request.URL.Path).
				Err(err).
				Log()
			domainErr = apperrors.ErrInternal
		} else if domainErr.Code == apperrors.CodeInternal {
			logger.ErrorWithContext(ctx, "Internal error").
				Path(c.Request.URL.Path).
				Err(err).
				Log()
		}

		body := gin.H{
			constants.ResponseFieldError:   domainErr.Code,
			constants.ResponseFieldMessage: domainErr.Message,
		}
		if domainErr.Code == apperrors.CodeForbidden {
			body[constants.ResponseFieldOK] = false
			body[constants.ResponseFieldTimestamp] = time.Now().Unix()
		}

		c.JSON(apperrors.ToHTTPStatus(domainErr), body)
	}
}
