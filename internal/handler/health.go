package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Payphone-Digital/chirpy/internal/constants"
	"github.com/Payphone-Digital/chirpy/pkg/database"
	"github.com/Payphone-Digital/chirpy/pkg/logger"
	"github.com/Payphone-Digital/chirpy/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDisabled  = "disabled"
)

type HealthHandler struct {
	db          *gorm.DB
	redisClient redis.Client
}

type HealthCheckResponse struct {
	Status    string                 `json:"status"`
	Service   string                 `json:"service"`
	Version   string                 `json:"version"`
	Timestamp int64                  `json:"timestamp"`
	Checks    map[string]HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func NewHealthHandler(db *gorm.DB, redisClient redis.Client) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
	}
}

// HealthCheck reports 503 when the database is unreachable. Redis only
// backs a cache, so its state is reported without affecting the status.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := HealthCheckResponse{
		Status:    statusHealthy,
		Service:   constants.AppName,
		Version:   constants.AppVersion,
		Timestamp: time.Now().Unix(),
		Checks:    make(map[string]HealthCheck),
	}

	dbStatus := h.checkDatabase(ctx)
	response.Checks["database"] = dbStatus
	if dbStatus.Status != statusHealthy {
		response.Status = statusUnhealthy
	}

	response.Checks["redis"] = h.checkRedis(ctx)

	statusCode := http.StatusOK
	if response.Status == statusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	logger.GetLogger().Debug("Health check performed",
		zap.String("overall_status", response.Status),
		zap.Int("status_code", statusCode),
	)

	c.JSON(statusCode, response)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) HealthCheck {
	if h.db == nil {
		return HealthCheck{Status: statusUnhealthy, Message: "Database connection not initialized"}
	}

	if err := database.Ping(ctx, h.db); err != nil {
		logger.GetLogger().Error("Database ping failed", zap.Error(err))
		return HealthCheck{Status: statusUnhealthy, Message: "Database ping failed"}
	}

	return HealthCheck{Status: statusHealthy}
}

func (h *HealthHandler) checkRedis(ctx context.Context) HealthCheck {
	if h.redisClient == nil || !h.redisClient.IsEnabled() {
		return HealthCheck{Status: statusDisabled, Message: "Redis cache is disabled"}
	}

	if err := h.redisClient.Ping(ctx); err != nil {
		logger.GetLogger().Warn("Redis ping failed", zap.Error(err))
		return HealthCheck{Status: statusUnhealthy, Message: "Redis ping failed"}
	}

	return HealthCheck{Status: statusHealthy}
}
