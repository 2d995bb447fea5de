package router

import "github.com/gin-gonic/gin"

func (r *Router) chirpRoutes(api *gin.RouterGroup) {
	chirps := api.Group("/chirps")
	chirps.Use(r.jwtMw.RequireAccessToken())
	{
		chirps.POST("", r.chirpHandler.Create)
		chirps.GET("", r.chirpHandler.List)
		chirps.GET("/:id", r.chirpHandler.Get)
		chirps.PUT("/:id", r.chirpHandler.Edit)
		chirps.DELETE("/:id", r.chirpHandler.Delete)
	}
}
