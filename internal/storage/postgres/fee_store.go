package postgres

import (
	"gorm.io/gorm"

	"drtc/licensing/internal/models"
)

type feeStore struct {
	db *gorm.DB
}

func (s *feeStore) Create(entry *models.FeeScheduleEntry) error {
	return translate(s.db.Create(entry).Error)
}

func (s *feeStore) GetByID(id uint) (*models.FeeScheduleEntry, error) {
	var entry models.FeeScheduleEntry
	if err := s.db.First(&entry, id).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (s *feeStore) ListByCode(code string) ([]models.FeeScheduleEntry, error) {
	var entries []models.FeeScheduleEntry
	if err := s.db.Where("code = ?", code).Order("valid_from DESC").Find(&entries).Error; err != nil {
		return nil, translate(err)
	}
	return entries, nil
}

func (s *feeStore) ListActive() ([]models.FeeScheduleEntry, error) {
	var entries []models.FeeScheduleEntry
	if err := s.db.Where("active = ?", true).Order("code, valid_from DESC").Find(&entries).Error; err != nil {
		return nil, translate(err)
	}
	return entries, nil
}
