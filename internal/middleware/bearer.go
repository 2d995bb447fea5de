package middleware

import (
	"strings"

	"github.com/Payphone-Digital/chirpy/internal/constants"
	"github.com/gin-gonic/gin"
)

// BearerToken returns the token carried in the Authorization header as
// "Bearer <token>". It reports false when the header is missing, uses
// another scheme or carries an empty token.
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(constants.HeaderAuthorization)
	if !strings.HasPrefix(header, constants.BearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix))
	if token == "" {
		return "", false
	}
	return token, true
}
