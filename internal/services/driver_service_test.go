package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drtc/licensing/internal/apperrors"
	"drtc/licensing/internal/models"
)

func validDriverInput(companyID uint) RegisterDriverInput {
	return RegisterDriverInput{
		NationalID:      "43215678",
		FirstName:       "Rosa",
		LastName:        "Mamani",
		CompanyID:       companyID,
		LicenseNumber:   "Q4321567",
		LicenseCategory: "A-IIIa",
		LicenseExpiry:   time.Now().AddDate(2, 0, 0),
	}
}

func TestRegisterDriverValidation(t *testing.T) {
	e := newEnv(t)

	cases := []struct {
		name   string
		mutate func(*RegisterDriverInput)
	}{
		{"short national id", func(in *RegisterDriverInput) { in.NationalID = "1234567" }},
		{"non-numeric national id", func(in *RegisterDriverInput) { in.NationalID = "1234567A" }},
		{"short license number", func(in *RegisterDriverInput) { in.LicenseNumber = "Q123" }},
		{"unknown category", func(in *RegisterDriverInput) { in.LicenseCategory = "B-I" }},
		{"expired license", func(in *RegisterDriverInput) { in.LicenseExpiry = time.Now().AddDate(0, 0, -1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validDriverInput(e.company.ID)
			tc.mutate(&input)
			_, _, err := e.drivers.Register(e.operator, input)
			assert.True(t, apperrors.Is(err, apperrors.KindValidation), "got %v", err)
		})
	}
}

func TestRegisterDriverCreatesRequest(t *testing.T) {
	e := newEnv(t)
	driver, request, err := e.drivers.Register(e.operator, validDriverInput(e.company.ID))
	require.NoError(t, err)
	assert.Equal(t, models.DriverPending, driver.State)
	assert.Equal(t, models.RequestRequested, request.State)
	assert.Equal(t, driver.ID, request.DriverID)
	assert.NotEmpty(t, request.Code)
}

func TestRegisterDriverDuplicate(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.drivers.Register(e.operator, validDriverInput(e.company.ID))
	require.NoError(t, err)
	_, _, err = e.drivers.Register(e.operator, validDriverInput(e.company.ID))
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
}

func TestRegisterDriverUnknownCompany(t *testing.T) {
	e := newEnv(t)
	input := validDriverInput(999)
	_, _, err := e.drivers.Register(e.admin, input)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestRegisterDriverInactiveCompany(t *testing.T) {
	e := newEnv(t)
	e.company.Active = false
	require.NoError(t, e.stg.Company().Update(e.company))

	_, _, err := e.drivers.Register(e.operator, validDriverInput(e.company.ID))
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestManagerRegistersOwnCompanyOnly(t *testing.T) {
	e := newEnv(t)
	other := &models.Company{Name: "Turismo Andino", TaxID: "20987654321", Active: true}
	require.NoError(t, e.stg.Company().Create(other))

	_, _, err := e.drivers.Register(e.manager, validDriverInput(other.ID))
	assert.True(t, apperrors.Is(err, apperrors.KindPermissionDenied))

	_, _, err = e.drivers.Register(e.manager, validDriverInput(e.company.ID))
	require.NoError(t, err)
}

func TestListScopedForManagers(t *testing.T) {
	e := newEnv(t)
	other := &models.Company{Name: "Turismo Andino", TaxID: "20987654321", Active: true}
	require.NoError(t, e.stg.Company().Create(other))

	e.registerDriver(t)
	input := validDriverInput(other.ID)
	_, _, err := e.drivers.Register(e.operator, input)
	require.NoError(t, err)

	all, err := e.drivers.List(e.operator)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := e.drivers.List(e.manager)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, e.company.ID, mine[0].CompanyID)
}

func TestListExpiring(t *testing.T) {
	e := newEnv(t)
	soonCert := time.Now().AddDate(0, 0, 10)
	_, _, err := e.drivers.Register(e.operator, RegisterDriverInput{
		NationalID:        "43215678",
		FirstName:         "Rosa",
		LastName:          "Mamani",
		CompanyID:         e.company.ID,
		LicenseNumber:     "Q4321567",
		LicenseCategory:   "A-IIIa",
		LicenseExpiry:     time.Now().AddDate(0, 0, 10),
		MedicalCertExpiry: &soonCert,
	})
	require.NoError(t, err)
	e.registerDriver(t) // license 400 days out

	expiring, err := e.drivers.ListExpiring(30)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "43215678", expiring[0].NationalID)

	// Default horizon applies for non-positive day counts
	expiring, err = e.drivers.ListExpiring(0)
	require.NoError(t, err)
	assert.Len(t, expiring, 1)
}
