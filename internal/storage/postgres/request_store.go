package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"drtc/licensing/internal/models"
)

type requestStore struct {
	db *gorm.DB
}

func (s *requestStore) Create(request *models.AuthorizationRequest) error {
	return translate(s.db.Create(request).Error)
}

func (s *requestStore) GetByID(id uint) (*models.AuthorizationRequest, error) {
	var request models.AuthorizationRequest
	if err := s.db.Preload("Driver").Preload("Driver.Company").First(&request, id).Error; err != nil {
		return nil, translate(err)
	}
	return &request, nil
}

// GetByIDForUpdate locks the request row for the remainder of the
// surrounding transaction so racing transitions queue up instead of both
// reading the same state.
func (s *requestStore) GetByIDForUpdate(id uint) (*models.AuthorizationRequest, error) {
	var request models.AuthorizationRequest
	err := s.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&request, id).Error
	if err != nil {
		return nil, translate(err)
	}
	var driver models.Driver
	if err := s.db.Preload("Company").First(&driver, request.DriverID).Error; err != nil {
		return nil, translate(err)
	}
	request.Driver = driver
	return &request, nil
}

func (s *requestStore) GetActiveByDriver(driverID uint) (*models.AuthorizationRequest, error) {
	var request models.AuthorizationRequest
	err := s.db.Where("driver_id = ? AND state <> ?", driverID, models.RequestRejected).
		Order("id DESC").
		First(&request).Error
	if err != nil {
		return nil, translate(err)
	}
	return &request, nil
}

func (s *requestStore) CodeExists(code string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.AuthorizationRequest{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (s *requestStore) List() ([]models.AuthorizationRequest, error) {
	var requests []models.AuthorizationRequest
	if err := s.db.Preload("Driver").Order("id DESC").Find(&requests).Error; err != nil {
		return nil, translate(err)
	}
	return requests, nil
}

func (s *requestStore) ListByState(state models.RequestState) ([]models.AuthorizationRequest, error) {
	var requests []models.AuthorizationRequest
	if err := s.db.Preload("Driver").Where("state = ?", state).Order("id").Find(&requests).Error; err != nil {
		return nil, translate(err)
	}
	return requests, nil
}

func (s *requestStore) Update(request *models.AuthorizationRequest) error {
	return translate(s.db.Omit("Driver", "Log").Save(request).Error)
}

func (s *requestStore) AppendLog(entry *models.RequestLogEntry) error {
	return translate(s.db.Create(entry).Error)
}

func (s *requestStore) ListLog(requestID uint) ([]models.RequestLogEntry, error) {
	var entries []models.RequestLogEntry
	if err := s.db.Where("request_id = ?", requestID).Order("id").Find(&entries).Error; err != nil {
		return nil, translate(err)
	}
	return entries, nil
}
