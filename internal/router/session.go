package router

import "github.com/gin-gonic/gin"

// Session routes are public; refreshing authenticates with the refresh
// token itself.
func (r *Router) sessionRoutes(api *gin.RouterGroup) {
	api.POST("/users", r.sessionHandler.Register)

	session := api.Group("/session")
	{
		session.POST("", r.sessionHandler.Login)
		session.PUT("", r.sessionHandler.RefreshToken)
	}
}
