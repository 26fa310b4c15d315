package routes

import (
	"github.com/gin-gonic/gin"

	"drtc/licensing/internal/controllers"
	"drtc/licensing/internal/middleware"
)

func AuthRoutes(r *gin.Engine, ctl *controllers.AuthController) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", ctl.Login)
		auth.GET("/me", middleware.RequireAuth(), ctl.Me)
	}
}
