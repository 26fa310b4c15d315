package routes

import (
	"github.com/gin-gonic/gin"

	"drtc/licensing/internal/controllers"
	"drtc/licensing/internal/middleware"
)

func AuthorizationRoutes(r *gin.Engine, ctl *controllers.AuthorizationController, payments *controllers.PaymentController) {
	auths := r.Group("/authorizations")
	auths.Use(middleware.RequireAuth())
	{
		auths.GET("", ctl.ListRequests)
		auths.GET("/:id", ctl.GetRequest)
		auths.GET("/:id/log", ctl.GetRequestLog)
		auths.GET("/:id/payment", payments.GetRequestPayment)

		auths.POST("/:id/review", ctl.ReviewRequest)
		auths.POST("/:id/approve", ctl.ApproveRequest)
		auths.POST("/:id/observe", ctl.ObserveRequest)
		auths.POST("/:id/resubmit", ctl.ResubmitRequest)
		auths.POST("/:id/enable", ctl.EnableRequest)
		auths.POST("/:id/suspend", ctl.SuspendRequest)
		auths.POST("/:id/reinstate", ctl.ReinstateRequest)
		auths.POST("/:id/revoke", ctl.RevokeRequest)
	}
}
