package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"drtc/licensing/internal/access"
	"drtc/licensing/internal/apperrors"
	"drtc/licensing/internal/models"
	"drtc/licensing/internal/storage"
)

// DriverService registers drivers and answers registry queries. A driver
// and its first authorization request are created together, atomically.
type DriverService struct {
	stg storage.IStorage
	acl *access.Evaluator
	log *logrus.Logger
}

func NewDriverService(stg storage.IStorage, acl *access.Evaluator, log *logrus.Logger) *DriverService {
	return &DriverService{stg: stg, acl: acl, log: log}
}

// RegisterDriverInput is the registration payload.
type RegisterDriverInput struct {
	NationalID        string
	FirstName         string
	LastName          string
	Phone             string
	Email             string
	CompanyID         uint
	LicenseNumber     string
	LicenseCategory   string
	LicenseExpiry     time.Time
	MedicalCertNumber string
	MedicalCertExpiry *time.Time
}

func (in RegisterDriverInput) validate() error {
	if len(in.NationalID) != 8 {
		return apperrors.Validation("national_id", "must be exactly 8 digits")
	}
	for _, c := range in.NationalID {
		if c < '0' || c > '9' {
			return apperrors.Validation("national_id", "must be exactly 8 digits")
		}
	}
	if len(in.LicenseNumber) < 5 {
		return apperrors.Validation("license_number", "too short")
	}
	if !models.ValidLicenseCategory(in.LicenseCategory) {
		return apperrors.Validation("license_category",
			fmt.Sprintf("must be one of %v", models.LicenseCategories))
	}
	if !in.LicenseExpiry.After(time.Now()) {
		return apperrors.Validation("license_expiry", "license is already expired")
	}
	return nil
}

// Register creates the driver in Pending state together with its Requested
// authorization, in one transaction.
func (s *DriverService) Register(actor access.Actor, input RegisterDriverInput) (*models.Driver, *models.AuthorizationRequest, error) {
	if err := s.acl.Require(actor, access.ActionCreateDriver, input.CompanyID); err != nil {
		return nil, nil, err
	}
	if err := input.validate(); err != nil {
		return nil, nil, err
	}

	var (
		driver  *models.Driver
		request *models.AuthorizationRequest
	)
	err := s.stg.WithinTx(func(tx storage.IStorage) error {
		company, err := tx.Company().GetByID(input.CompanyID)
		if err != nil {
			return notFoundOr(err, "company", input.CompanyID)
		}
		if !company.Active {
			return apperrors.Validation("company_id", "company is inactive")
		}
		driver = &models.Driver{
			NationalID:        input.NationalID,
			FirstName:         input.FirstName,
			LastName:          input.LastName,
			Phone:             input.Phone,
			Email:             input.Email,
			CompanyID:         company.ID,
			LicenseNumber:     input.LicenseNumber,
			LicenseCategory:   input.LicenseCategory,
			LicenseExpiry:     input.LicenseExpiry,
			MedicalCertNumber: input.MedicalCertNumber,
			MedicalCertExpiry: input.MedicalCertExpiry,
			State:             models.DriverPending,
		}
		if err := tx.Driver().Create(driver); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return apperrors.Conflict("a driver with this national id or license already exists")
			}
			return err
		}
		code, err := newRequestCode(tx)
		if err != nil {
			return err
		}
		request = &models.AuthorizationRequest{
			DriverID: driver.ID,
			Code:     code,
			State:    models.RequestRequested,
		}
		if err := tx.Request().Create(request); err != nil {
			return err
		}
		if err := tx.Request().AppendLog(&models.RequestLogEntry{
			RequestID: request.ID,
			ActorID:   actor.UserID,
			FromState: models.RequestRequested,
			ToState:   models.RequestRequested,
			Note:      "authorization requested",
		}); err != nil {
			return err
		}
		return recordAudit(tx, actor.UserID, "driver.register", "driver", driver.ID,
			fmt.Sprintf("driver %s, request %s", driver.NationalID, request.Code))
	})
	if err != nil {
		return nil, nil, err
	}
	s.log.WithFields(logrus.Fields{"driver_id": driver.ID, "request": request.Code}).Info("driver registered")
	return driver, request, nil
}

// Get returns a driver by id.
func (s *DriverService) Get(driverID uint) (*models.Driver, error) {
	driver, err := s.stg.Driver().GetByID(driverID)
	if err != nil {
		return nil, notFoundOr(err, "driver", driverID)
	}
	return driver, nil
}

// List returns the drivers visible to the actor: everything for regulator
// staff, the own company for a company manager.
func (s *DriverService) List(actor access.Actor) ([]models.Driver, error) {
	if actor.Role == models.RoleCompanyManager {
		if actor.CompanyID == nil {
			return nil, access.ErrUnaffiliatedManager
		}
		return s.stg.Driver().ListByCompany(*actor.CompanyID)
	}
	return s.stg.Driver().List()
}

// ListExpiring returns drivers with a license or medical certificate
// expiring within the given number of days.
func (s *DriverService) ListExpiring(days int) ([]models.Driver, error) {
	if days <= 0 {
		days = 30
	}
	return s.stg.Driver().ListExpiring(time.Now().AddDate(0, 0, days))
}

// Log returns a driver's append-only narrative log.
func (s *DriverService) Log(driverID uint) ([]models.DriverLogEntry, error) {
	if _, err := s.stg.Driver().GetByID(driverID); err != nil {
		return nil, notFoundOr(err, "driver", driverID)
	}
	return s.stg.Driver().ListLog(driverID)
}
