package postgres

import (
	"time"

	"gorm.io/gorm"

	"drtc/licensing/internal/models"
)

type driverStore struct {
	db *gorm.DB
}

func (s *driverStore) Create(driver *models.Driver) error {
	return translate(s.db.Create(driver).Error)
}

func (s *driverStore) GetByID(id uint) (*models.Driver, error) {
	var driver models.Driver
	if err := s.db.Preload("Company").First(&driver, id).Error; err != nil {
		return nil, translate(err)
	}
	return &driver, nil
}

func (s *driverStore) GetByNationalID(nationalID string) (*models.Driver, error) {
	var driver models.Driver
	if err := s.db.Preload("Company").Where("national_id = ?", nationalID).First(&driver).Error; err != nil {
		return nil, translate(err)
	}
	return &driver, nil
}

func (s *driverStore) List() ([]models.Driver, error) {
	var drivers []models.Driver
	if err := s.db.Preload("Company").Order("id").Find(&drivers).Error; err != nil {
		return nil, translate(err)
	}
	return drivers, nil
}

func (s *driverStore) ListByCompany(companyID uint) ([]models.Driver, error) {
	var drivers []models.Driver
	if err := s.db.Where("company_id = ?", companyID).Order("id").Find(&drivers).Error; err != nil {
		return nil, translate(err)
	}
	return drivers, nil
}

func (s *driverStore) ListExpiring(by time.Time) ([]models.Driver, error) {
	var drivers []models.Driver
	err := s.db.Preload("Company").
		Where("license_expiry <= ? OR (medical_cert_expiry IS NOT NULL AND medical_cert_expiry <= ?)", by, by).
		Order("license_expiry").
		Find(&drivers).Error
	if err != nil {
		return nil, translate(err)
	}
	return drivers, nil
}

func (s *driverStore) Update(driver *models.Driver) error {
	return translate(s.db.Omit("Company", "Log").Save(driver).Error)
}

func (s *driverStore) AppendLog(entry *models.DriverLogEntry) error {
	return translate(s.db.Create(entry).Error)
}

func (s *driverStore) ListLog(driverID uint) ([]models.DriverLogEntry, error) {
	var entries []models.DriverLogEntry
	if err := s.db.Where("driver_id = ?", driverID).Order("id").Find(&entries).Error; err != nil {
		return nil, translate(err)
	}
	return entries, nil
}
