package handler

import (
	"net/http"

	"github.com/Payphone-Digital/chirpy/internal/dto"
	apperrors "github.com/Payphone-Digital/chirpy/internal/errors"
	"github.com/Payphone-Digital/chirpy/internal/middleware"
	"github.com/Payphone-Digital/chirpy/internal/service"
	ctxutil "github.com/Payphone-Digital/chirpy/pkg/context"
	"github.com/Payphone-Digital/chirpy/pkg/logger"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService *service.SessionService
}

func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

// Register handles POST /api/users
func (h *SessionHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Register")

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.DebugWithContext(ctx, "Undecodable register body, validating empty fields").
			Err(err).
			Log()
		req = dto.RegisterRequest{}
	}

	response, err := h.sessionService.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, response)
}

// Login handles POST /api/session
func (h *SessionHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.DebugWithContext(ctx, "Undecodable login body, validating empty fields").
			Err(err).
			Log()
		req = dto.LoginRequest{}
	}

	response, err := h.sessionService.Login(ctx, req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, response)
}

// RefreshToken handles PUT /api/session. The refresh token travels as a
// bearer token.
func (h *SessionHandler) RefreshToken(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RefreshToken")

	token, ok := middleware.BearerToken(c)
	if !ok {
		logger.WarnWithContext(ctx, "Missing refresh token").Log()
		_ = c.Error(apperrors.ErrInvalidRefreshToken)
		c.Abort()
		return
	}

	accessToken, err := h.sessionService.GetNewAccessToken(ctx, token)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, dto.RefreshTokenResponse{AccessToken: accessToken})
}
