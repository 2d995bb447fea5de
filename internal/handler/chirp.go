package handler

import (
	"net/http"
	"strconv"

	"github.com/Payphone-Digital/chirpy/internal/dto"
	apperrors "github.com/Payphone-Digital/chirpy/internal/errors"
	"github.com/Payphone-Digital/chirpy/internal/middleware"
	"github.com/Payphone-Digital/chirpy/internal/service"
	ctxutil "github.com/Payphone-Digital/chirpy/pkg/context"
	"github.com/Payphone-Digital/chirpy/pkg/logger"
	"github.com/gin-gonic/gin"
)

type ChirpHandler struct {
	chirpService *service.ChirpService
}

func NewChirpHandler(chirpService *service.ChirpService) *ChirpHandler {
	return &ChirpHandler{
		chirpService: chirpService,
	}
}

// chirpID parses the :id path parameter. Anything that is not a positive
// integer cannot name a chirp.
func chirpID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.ErrNotFound
	}
	return uint(id), nil
}

func currentUser(c *gin.Context) (dto.Identity, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return dto.Identity{}, apperrors.ErrInvalidAccessToken
	}
	return user, nil
}

func (h *ChirpHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CreateChirp")

	user, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	var req dto.ChirpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.DebugWithContext(ctx, "Undecodable chirp body").Err(err).Log()
		req = dto.ChirpRequest{}
	}

	response, err := h.chirpService.CreateChirp(ctx, user, req.Message)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ChirpHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListChirps")

	response, err := h.chirpService.GetChirpList(ctx)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ChirpHandler) Get(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetChirp")

	id, err := chirpID(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	response, err := h.chirpService.GetOneChirp(ctx, id)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ChirpHandler) Edit(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "EditChirp")

	user, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	id, err := chirpID(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	var req dto.ChirpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.DebugWithContext(ctx, "Undecodable chirp body").Err(err).Log()
		req = dto.ChirpRequest{}
	}

	response, err := h.chirpService.EditChirp(ctx, user, id, req.Message)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ChirpHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteChirp")

	user, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	id, err := chirpID(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if err := h.chirpService.DeleteChirp(ctx, user, id); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, dto.DeleteChirpResponse{ID: id})
}
