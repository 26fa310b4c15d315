package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"drtc/licensing/internal/access"
	"drtc/licensing/internal/controllers"
	"drtc/licensing/internal/models"
	"drtc/licensing/internal/services"
	"drtc/licensing/internal/storage/memory"
)

type testServer struct {
	router  *gin.Engine
	stg     *memory.Store
	company *models.Company
	fee     *models.FeeScheduleEntry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stg := memory.NewStore()
	acl := access.NewEvaluator()
	log := logrus.New()
	log.SetOutput(io.Discard)

	userSvc := services.NewUserService(stg, acl, log)
	companySvc := services.NewCompanyService(stg, acl, log)
	driverSvc := services.NewDriverService(stg, acl, log)
	feeSvc := services.NewFeeService(stg, acl, log)
	paymentSvc := services.NewPaymentService(stg, acl, log)
	authSvc := services.NewAuthorizationService(stg, acl, paymentSvc, log)
	auditSvc := services.NewAuditService(stg, acl, log)

	router := SetupRouter(Controllers{
		Auth:           controllers.NewAuthController(userSvc),
		Users:          controllers.NewUserController(userSvc),
		Companies:      controllers.NewCompanyController(companySvc),
		Drivers:        controllers.NewDriverController(driverSvc),
		Authorizations: controllers.NewAuthorizationController(authSvc),
		Payments:       controllers.NewPaymentController(paymentSvc),
		Fees:           controllers.NewFeeController(feeSvc),
		Audit:          controllers.NewAuditController(auditSvc),
	})

	company := &models.Company{Name: "Transportes El Sol", TaxID: "20123456789", Active: true}
	require.NoError(t, stg.Company().Create(company))
	fee := &models.FeeScheduleEntry{
		Code:      services.DefaultFeeCode,
		Amount:    30.50,
		ValidFrom: time.Now().AddDate(0, -1, 0),
		Active:    true,
	}
	require.NoError(t, stg.Fee().Create(fee))

	return &testServer{router: router, stg: stg, company: company, fee: fee}
}

func (ts *testServer) seedUser(t *testing.T, email string, role models.Role) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, ts.stg.User().Create(&models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}))
}

func (ts *testServer) login(t *testing.T, email string) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email": email, "password": "secret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func (ts *testServer) do(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func TestLoginAndAuthGate(t *testing.T) {
	ts := newTestServer(t)
	ts.seedUser(t, "op@drtc.gob.pe", models.RoleOperator)

	// No token
	w := ts.do(t, http.MethodGet, "/drivers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Bad credentials
	w = ts.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "op@drtc.gob.pe", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := ts.login(t, "op@drtc.gob.pe")
	w = ts.do(t, http.MethodGet, "/drivers", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDriverRegistrationOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	ts.seedUser(t, "op@drtc.gob.pe", models.RoleOperator)
	token := ts.login(t, "op@drtc.gob.pe")

	w := ts.do(t, http.MethodPost, "/drivers", token, gin.H{
		"national_id":      "43215678",
		"first_name":       "Rosa",
		"last_name":        "Mamani",
		"company_id":       ts.company.ID,
		"license_number":   "Q4321567",
		"license_category": "A-IIIa",
		"license_expiry":   time.Now().AddDate(2, 0, 0).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Request models.AuthorizationRequest `json:"request"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.RequestRequested, created.Request.State)

	// Validation errors surface as 400
	w = ts.do(t, http.MethodPost, "/drivers", token, gin.H{
		"national_id":      "123",
		"first_name":       "Rosa",
		"last_name":        "Mamani",
		"company_id":       ts.company.ID,
		"license_number":   "Q0000001",
		"license_category": "A-IIIa",
		"license_expiry":   time.Now().AddDate(2, 0, 0).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorKindStatusMapping(t *testing.T) {
	ts := newTestServer(t)
	ts.seedUser(t, "op@drtc.gob.pe", models.RoleOperator)
	ts.seedUser(t, "dir@drtc.gob.pe", models.RoleDirector)
	opToken := ts.login(t, "op@drtc.gob.pe")
	dirToken := ts.login(t, "dir@drtc.gob.pe")

	w := ts.do(t, http.MethodPost, "/drivers", opToken, gin.H{
		"national_id":      "43215678",
		"first_name":       "Rosa",
		"last_name":        "Mamani",
		"company_id":       ts.company.ID,
		"license_number":   "Q4321567",
		"license_category": "A-IIIa",
		"license_expiry":   time.Now().AddDate(2, 0, 0).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Request models.AuthorizationRequest `json:"request"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created.Request.ID

	// Invalid transition -> 409
	w = ts.do(t, http.MethodPost, fmt.Sprintf("/authorizations/%d/approve", id), dirToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Operators cannot approve -> 403
	w = ts.do(t, http.MethodPost, fmt.Sprintf("/authorizations/%d/review", id), opToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.do(t, http.MethodPost, fmt.Sprintf("/authorizations/%d/approve", id), opToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Missing confirmed payment -> 422
	w = ts.do(t, http.MethodPost, fmt.Sprintf("/authorizations/%d/approve", id), dirToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.do(t, http.MethodPost, fmt.Sprintf("/authorizations/%d/enable", id), dirToken, gin.H{
		"valid_until": time.Now().AddDate(1, 0, 0).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Unknown request -> 404
	w = ts.do(t, http.MethodGet, "/authorizations/999", dirToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Role-gated route groups -> 403
	w = ts.do(t, http.MethodGet, "/audit", opToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = ts.do(t, http.MethodGet, "/audit", dirToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
