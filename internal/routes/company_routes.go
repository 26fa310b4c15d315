package routes

import (
	"github.com/gin-gonic/gin"

	"drtc/licensing/internal/controllers"
	"drtc/licensing/internal/middleware"
)

func CompanyRoutes(r *gin.Engine, ctl *controllers.CompanyController) {
	companies := r.Group("/companies")
	companies.Use(middleware.RequireAuth())
	{
		companies.POST("", ctl.CreateCompany)
		companies.GET("", ctl.ListCompanies)
		companies.GET("/:id", ctl.GetCompany)
		companies.DELETE("/:id", ctl.DeactivateCompany)
	}
}
