package routes

import (
	"github.com/gin-gonic/gin"

	"drtc/licensing/internal/controllers"
	"drtc/licensing/internal/middleware"
)

func DriverRoutes(r *gin.Engine, ctl *controllers.DriverController) {
	drivers := r.Group("/drivers")
	drivers.Use(middleware.RequireAuth())
	{
		drivers.POST("", ctl.RegisterDriver)
		drivers.GET("", ctl.ListDrivers)
		drivers.GET("/expiring", ctl.ListExpiringDrivers)
		drivers.GET("/:id", ctl.GetDriver)
		drivers.GET("/:id/log", ctl.GetDriverLog)
	}
}
