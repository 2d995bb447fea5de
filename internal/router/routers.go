package router

import (
	"github.com/Payphone-Digital/chirpy/config"
	"github.com/Payphone-Digital/chirpy/internal/handler"
	"github.com/Payphone-Digital/chirpy/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	sessionHandler *handler.SessionHandler
	chirpHandler   *handler.ChirpHandler
	healthHandler  *handler.HealthHandler

	jwtMw  *middleware.JWTMiddleware
	Config *config.Config
}

func NewRouter(
	session *handler.SessionHandler,
	chirp *handler.ChirpHandler,
	health *handler.HealthHandler,

	jwtMw *middleware.JWTMiddleware,
	config *config.Config,
) *Router {
	return &Router{
		sessionHandler: session,
		chirpHandler:   chirp,
		healthHandler:  health,

		jwtMw:  jwtMw,
		Config: config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.ContextMiddleware("api"))
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestTimeoutMiddleware(r.Config.App.Timeout))
	router.Use(middleware.ErrorHandler())

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)

		r.sessionRoutes(api)
		r.chirpRoutes(api)
	}

	return router
}
