package routes

import (
	"github.com/gin-gonic/gin"

	"drtc/licensing/internal/controllers"
	"drtc/licensing/internal/middleware"
	"drtc/licensing/internal/models"
)

func UserRoutes(r *gin.Engine, ctl *controllers.UserController) {
	users := r.Group("/users")
	users.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleDirector, models.RoleDeputy))
	{
		users.POST("", ctl.CreateUser)
		users.GET("", ctl.ListUsers)
		users.DELETE("/:id", ctl.DeactivateUser)
	}
}
