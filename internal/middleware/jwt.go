package middleware

import (
	"github.com/Payphone-Digital/chirpy/internal/constants"
	"github.com/Payphone-Digital/chirpy/internal/dto"
	apperrors "github.com/Payphone-Digital/chirpy/internal/errors"
	"github.com/Payphone-Digital/chirpy/internal/service"
	ctxutil "github.com/Payphone-Digital/chirpy/pkg/context"
	"github.com/Payphone-Digital/chirpy/pkg/logger"
	"github.com/gin-gonic/gin"
)

// AccessTokenVerifier verifies access tokens issued by the session service.
type AccessTokenVerifier interface {
	VerifyAccessToken(token string) (*dto.Identity, error)
}

type JWTMiddleware struct {
	verifier AccessTokenVerifier
}

func NewJWTMiddleware(verifier AccessTokenVerifier) *JWTMiddleware {
	return &JWTMiddleware{verifier: verifier}
}

// RequireAccessToken rejects requests without a valid access token and
// stores the caller's identity for the handlers behind it.
func (m *JWTMiddleware) RequireAccessToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token, ok := BearerToken(c)
		if !ok {
			logger.WarnWithContext(ctx, "Missing bearer token").
				Method(c.Request.Method).
				Path(c.Request.URL.Path).
				Log()
			_ = c.Error(apperrors.ErrInvalidAccessToken)
			c.Abort()
			return
		}

		identity, err := m.verifier.VerifyAccessToken(token)
		if err != nil {
			if service.IsTokenValidationError(err) {
				logger.WarnWithContext(ctx, "Invalid or expired access token").
					Path(c.Request.URL.Path).
					Err(err).
					Log()
				_ = c.Error(apperrors.ErrInvalidAccessToken)
			} else {
				_ = c.Error(apperrors.WrapError(apperrors.ErrInternal, err))
			}
			c.Abort()
			return
		}

		c.Set(constants.GinKeyIdentity, *identity)
		c.Request = c.Request.WithContext(ctxutil.WithUserID(ctx, identity.ID))

		logger.DebugWithContext(c.Request.Context(), "User authenticated successfully").
			String("email", identity.Email).
			Log()

		c.Next()
	}
}

// CurrentUser returns the identity stored by RequireAccessToken.
func CurrentUser(c *gin.Context) (dto.Identity, bool) {
	v, exists := c.Get(constants.GinKeyIdentity)
	if !exists {
		return dto.Identity{}, false
	}
	identity, ok := v.(dto.Identity)
	return identity, ok
}
