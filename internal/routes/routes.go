package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"drtc/licensing/internal/controllers"
)

// Controllers groups the handlers SetupRouter wires.
type Controllers struct {
	Auth           *controllers.AuthController
	Users          *controllers.UserController
	Companies      *controllers.CompanyController
	Drivers        *controllers.DriverController
	Authorizations *controllers.AuthorizationController
	Payments       *controllers.PaymentController
	Fees           *controllers.FeeController
	Audit          *controllers.AuditController
}

func SetupRouter(ctl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	AuthRoutes(r, ctl.Auth)
	UserRoutes(r, ctl.Users)
	CompanyRoutes(r, ctl.Companies)
	DriverRoutes(r, ctl.Drivers)
	AuthorizationRoutes(r, ctl.Authorizations, ctl.Payments)
	PaymentRoutes(r, ctl.Payments)
	FeeRoutes(r, ctl.Fees)
	AuditRoutes(r, ctl.Audit)

	return r
}
