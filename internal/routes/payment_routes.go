package routes

import (
	"github.com/gin-gonic/gin"

	"drtc/licensing/internal/controllers"
	"drtc/licensing/internal/middleware"
)

func PaymentRoutes(r *gin.Engine, ctl *controllers.PaymentController) {
	payments := r.Group("/payments")
	payments.Use(middleware.RequireAuth())
	{
		payments.POST("", ctl.RegisterPayment)
		payments.GET("/report", ctl.IncomeReport)
		payments.POST("/:id/confirm", ctl.ConfirmPayment)
		payments.POST("/:id/reject", ctl.RejectPayment)
	}
}
