package services

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"drtc/licensing/internal/access"
	"drtc/licensing/internal/models"
	"drtc/licensing/internal/storage/memory"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// env wires every service against a fresh in-memory store with one company
// and one fee schedule entry seeded.
type env struct {
	stg *memory.Store
	acl *access.Evaluator

	users     *UserService
	companies *CompanyService
	drivers   *DriverService
	fees      *FeeService
	payments  *PaymentService
	auths     *AuthorizationService
	audit     *AuditService

	company  *models.Company
	feeEntry *models.FeeScheduleEntry

	admin    access.Actor
	director access.Actor
	deputy   access.Actor
	operator access.Actor
	manager  access.Actor
}

func newEnv(t *testing.T) *env {
	t.Helper()
	stg := memory.NewStore()
	acl := access.NewEvaluator()
	log := testLogger()

	e := &env{
		stg:       stg,
		acl:       acl,
		users:     NewUserService(stg, acl, log),
		companies: NewCompanyService(stg, acl, log),
		drivers:   NewDriverService(stg, acl, log),
		fees:      NewFeeService(stg, acl, log),
		payments:  NewPaymentService(stg, acl, log),
		audit:     NewAuditService(stg, acl, log),
	}
	e.auths = NewAuthorizationService(stg, acl, e.payments, log)

	e.company = &models.Company{
		Name:              "Transportes El Sol",
		TaxID:             "20123456789",
		Active:            true,
		ServiceCategories: []string{"passengers"},
	}
	require.NoError(t, stg.Company().Create(e.company))

	e.feeEntry = &models.FeeScheduleEntry{
		Code:      DefaultFeeCode,
		Amount:    30.50,
		ValidFrom: time.Now().AddDate(0, -1, 0),
		Active:    true,
	}
	require.NoError(t, stg.Fee().Create(e.feeEntry))

	e.admin = access.Actor{UserID: 1, Role: models.RoleSuperAdmin}
	e.director = access.Actor{UserID: 2, Role: models.RoleDirector}
	e.deputy = access.Actor{UserID: 3, Role: models.RoleDeputy}
	e.operator = access.Actor{UserID: 4, Role: models.RoleOperator}
	e.manager = access.Actor{UserID: 5, Role: models.RoleCompanyManager, CompanyID: &e.company.ID}
	return e
}

var driverSeq int

// registerDriver creates a distinct driver plus its initial request.
func (e *env) registerDriver(t *testing.T) (*models.Driver, *models.AuthorizationRequest) {
	t.Helper()
	driverSeq++
	driver, request, err := e.drivers.Register(e.operator, RegisterDriverInput{
		NationalID:      fmt.Sprintf("%08d", 40000000+driverSeq),
		FirstName:       "Juan",
		LastName:        "Quispe",
		CompanyID:       e.company.ID,
		LicenseNumber:   fmt.Sprintf("Q%07d", driverSeq),
		LicenseCategory: "A-IIIa",
		LicenseExpiry:   time.Now().AddDate(0, 0, 400),
	})
	require.NoError(t, err)
	return driver, request
}

// payAndConfirm registers and confirms the request's payment.
func (e *env) payAndConfirm(t *testing.T, requestID uint) *models.Payment {
	t.Helper()
	driverSeq++
	payment, err := e.payments.Register(e.operator, RegisterInput{
		RequestID:     requestID,
		FeeEntryID:    e.feeEntry.ID,
		Amount:        e.feeEntry.Amount,
		PaidOn:        time.Now(),
		ReceiptNumber: fmt.Sprintf("R-%06d", driverSeq),
	})
	require.NoError(t, err)
	payment, err = e.payments.Confirm(e.operator, payment.ID)
	require.NoError(t, err)
	return payment
}

// enableRequest walks a fresh request to Enabled.
func (e *env) enableRequest(t *testing.T, requestID uint) *models.AuthorizationRequest {
	t.Helper()
	_, err := e.auths.Review(e.operator, requestID, "complete file")
	require.NoError(t, err)
	_, err = e.auths.Approve(e.deputy, requestID, "documents in order")
	require.NoError(t, err)
	e.payAndConfirm(t, requestID)
	request, err := e.auths.Enable(e.director, requestID, time.Now().AddDate(1, 0, 0), "issued")
	require.NoError(t, err)
	return request
}

// expireLicense backdates the driver's license, simulating expiry after
// registration.
func (e *env) expireLicense(t *testing.T, driverID uint) {
	t.Helper()
	driver, err := e.stg.Driver().GetByID(driverID)
	require.NoError(t, err)
	driver.LicenseExpiry = time.Now().AddDate(0, 0, -1)
	require.NoError(t, e.stg.Driver().Update(driver))
}
