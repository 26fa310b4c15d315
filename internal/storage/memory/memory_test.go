package memory

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drtc/licensing/internal/models"
	"drtc/licensing/internal/storage"
)

func seedDriver(t *testing.T, s *Store) *models.Driver {
	t.Helper()
	driver := &models.Driver{
		NationalID:    "40001111",
		LicenseNumber: "Q0001111",
		LicenseExpiry: time.Now().AddDate(1, 0, 0),
		State:         models.DriverPending,
	}
	require.NoError(t, s.Driver().Create(driver))
	return driver
}

func TestSentinelErrors(t *testing.T) {
	s := NewStore()

	_, err := s.Driver().GetByID(1)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	seedDriver(t, s)
	err = s.Driver().Create(&models.Driver{NationalID: "40001111", LicenseNumber: "Q9999999"})
	assert.ErrorIs(t, err, storage.ErrDuplicate)
	err = s.Driver().Create(&models.Driver{NationalID: "40002222", LicenseNumber: "Q0001111"})
	assert.ErrorIs(t, err, storage.ErrDuplicate)
}

func TestWithinTxCommitsAtomically(t *testing.T) {
	s := NewStore()
	driver := seedDriver(t, s)

	err := s.WithinTx(func(tx storage.IStorage) error {
		d, err := tx.Driver().GetByID(driver.ID)
		require.NoError(t, err)
		d.State = models.DriverEnabled
		require.NoError(t, tx.Driver().Update(d))
		return tx.Request().Create(&models.AuthorizationRequest{
			DriverID: d.ID,
			Code:     "AUT-1",
			State:    models.RequestRequested,
		})
	})
	require.NoError(t, err)

	got, err := s.Driver().GetByID(driver.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DriverEnabled, got.State)
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	s := NewStore()
	driver := seedDriver(t, s)
	boom := errors.New("boom")

	err := s.WithinTx(func(tx storage.IStorage) error {
		d, err := tx.Driver().GetByID(driver.ID)
		require.NoError(t, err)
		d.State = models.DriverRevoked
		require.NoError(t, tx.Driver().Update(d))
		if err := tx.Driver().AppendLog(&models.DriverLogEntry{DriverID: d.ID}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Driver().GetByID(driver.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DriverPending, got.State, "failed tx must leave nothing behind")

	log, err := s.Driver().ListLog(driver.ID)
	require.NoError(t, err)
	assert.Empty(t, log)
}

func TestGetActiveByDriver(t *testing.T) {
	s := NewStore()
	driver := seedDriver(t, s)

	_, err := s.Request().GetActiveByDriver(driver.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	rejected := &models.AuthorizationRequest{DriverID: driver.ID, Code: "AUT-OLD", State: models.RequestRejected}
	require.NoError(t, s.Request().Create(rejected))
	_, err = s.Request().GetActiveByDriver(driver.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound, "terminal requests are not active")

	active := &models.AuthorizationRequest{DriverID: driver.ID, Code: "AUT-NEW", State: models.RequestRequested}
	require.NoError(t, s.Request().Create(active))
	got, err := s.Request().GetActiveByDriver(driver.ID)
	require.NoError(t, err)
	assert.Equal(t, active.ID, got.ID)
}

func TestRequestLoadsDriverAndCompany(t *testing.T) {
	s := NewStore()
	company := &models.Company{Name: "Expreso Sur", TaxID: "20111222333", Active: true}
	require.NoError(t, s.Company().Create(company))
	driver := &models.Driver{
		NationalID:    "40001111",
		LicenseNumber: "Q0001111",
		CompanyID:     company.ID,
		LicenseExpiry: time.Now().AddDate(1, 0, 0),
	}
	require.NoError(t, s.Driver().Create(driver))
	request := &models.AuthorizationRequest{DriverID: driver.ID, Code: "AUT-1", State: models.RequestRequested}
	require.NoError(t, s.Request().Create(request))

	got, err := s.Request().GetByIDForUpdate(request.ID)
	require.NoError(t, err)
	assert.Equal(t, driver.ID, got.Driver.ID)
	assert.Equal(t, company.ID, got.Driver.Company.ID)
}
