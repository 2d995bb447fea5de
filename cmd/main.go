package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/Payphone-Digital/chirpy/config"
	"github.com/Payphone-Digital/chirpy/internal/constants"
	"github.com/Payphone-Digital/chirpy/internal/handler"
	"github.com/Payphone-Digital/chirpy/internal/middleware"
	"github.com/Payphone-Digital/chirpy/internal/repository"
	"github.com/Payphone-Digital/chirpy/internal/router"
	"github.com/Payphone-Digital/chirpy/internal/service"
	"github.com/Payphone-Digital/chirpy/pkg/circuit"
	"github.com/Payphone-Digital/chirpy/pkg/database"
	"github.com/Payphone-Digital/chirpy/pkg/logger"
	"github.com/Payphone-Digital/chirpy/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	if config.App.Environment == constants.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
	)

	db, err := database.NewPostgresDB(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	if err := database.Seed(db, config); err != nil {
		logger.GetLogger().Error("Failed to seed database", zap.Error(err))
	}

	redisClient, err := redis.NewClient(config, logger.GetLogger())
	if err != nil {
		// the cache is optional; refresh tokens fall back to the database
		logger.GetLogger().Warn("Redis unavailable, continuing without cache", zap.Error(err))
		redisClient = redis.NewDisabledClient()
	}
	defer redisClient.Close()

	// Repositories
	breaker := circuit.NewBreaker("refresh-token-cache", circuit.DefaultConfig(), logger.GetLogger())
	sessionRepo := repository.NewSessionRepository(db, redisClient, breaker, config.Redis.RefreshCacheTTL)
	chirpRepo := repository.NewChirpRepository(db)

	// Services
	jwtService := service.NewJWTService(config.JWT.AccessSecret, config.JWT.RefreshSecret)
	hasher := service.NewBcryptHasher(config.Security.BcryptCost)
	sessionService := service.NewSessionService(sessionRepo, hasher, jwtService, config.JWT.AccessTokenTTL)
	chirpService := service.NewChirpService(chirpRepo)

	r := router.NewRouter(
		handler.NewSessionHandler(sessionService),
		handler.NewChirpHandler(chirpService),
		handler.NewHealthHandler(db, redisClient),

		middleware.NewJWTMiddleware(jwtService),
		config,
	).SetupRoutes()

	srv := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.GetLogger().Info("Server starting", zap.String("port", config.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.GetLogger().Error("Server forced to shutdown", zap.Error(err))
	}
}
