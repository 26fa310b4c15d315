package main

import (
	"log"
	"net/http"

	"drtc/licensing/internal/access"
	"drtc/licensing/internal/config"
	"drtc/licensing/internal/controllers"
	"drtc/licensing/internal/logger"
	"drtc/licensing/internal/middleware"
	"drtc/licensing/internal/routes"
	"drtc/licensing/internal/services"
	"drtc/licensing/internal/storage/postgres"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	stg := postgres.New(config.DB)
	acl := access.NewEvaluator()
	applog := logger.App()

	userSvc := services.NewUserService(stg, acl, applog)
	companySvc := services.NewCompanyService(stg, acl, applog)
	driverSvc := services.NewDriverService(stg, acl, applog)
	feeSvc := services.NewFeeService(stg, acl, applog)
	paymentSvc := services.NewPaymentService(stg, acl, applog)
	authSvc := services.NewAuthorizationService(stg, acl, paymentSvc, applog)
	auditSvc := services.NewAuditService(stg, acl, applog)

	r := routes.SetupRouter(routes.Controllers{
		Auth:           controllers.NewAuthController(userSvc),
		Users:          controllers.NewUserController(userSvc),
		Companies:      controllers.NewCompanyController(companySvc),
		Drivers:        controllers.NewDriverController(driverSvc),
		Authorizations: controllers.NewAuthorizationController(authSvc),
		Payments:       controllers.NewPaymentController(paymentSvc),
		Fees:           controllers.NewFeeController(feeSvc),
		Audit:          controllers.NewAuditController(auditSvc),
	})

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Println("🚀 Server running at :8080")
	log.Fatal(http.ListenAndServe("0.0.0.0:8080", handler))
}
