package routes

import (
	"github.com/gin-gonic/gin"

	"drtc/licensing/internal/controllers"
	"drtc/licensing/internal/middleware"
	"drtc/licensing/internal/models"
)

func AuditRoutes(r *gin.Engine, ctl *controllers.AuditController) {
	audit := r.Group("/audit")
	audit.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleDirector))
	{
		audit.GET("", ctl.ListAudit)
	}
}
