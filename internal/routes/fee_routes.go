package routes

import (
	"github.com/gin-gonic/gin"

	"drtc/licensing/internal/controllers"
	"drtc/licensing/internal/middleware"
)

func FeeRoutes(r *gin.Engine, ctl *controllers.FeeController) {
	fees := r.Group("/fees")
	fees.Use(middleware.RequireAuth())
	{
		fees.POST("", ctl.CreateFeeEntry)
		fees.GET("", ctl.ListFeeEntries)
		fees.GET("/quote", ctl.QuoteFee)
	}
}
