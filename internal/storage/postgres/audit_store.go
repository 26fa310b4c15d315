package postgres

import (
	"gorm.io/gorm"

	"drtc/licensing/internal/models"
)

type auditStore struct {
	db *gorm.DB
}

func (s *auditStore) Append(entry *models.AuditEntry) error {
	return translate(s.db.Create(entry).Error)
}

func (s *auditStore) List(limit, offset int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var entries []models.AuditEntry
	if err := s.db.Order("id DESC").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		return nil, translate(err)
	}
	return entries, nil
}
