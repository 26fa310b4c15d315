package services

import (
	"github.com/sirupsen/logrus"

	"drtc/licensing/internal/access"
	"drtc/licensing/internal/models"
	"drtc/licensing/internal/storage"
)

// AuditService exposes the audit trail to authorized readers. Writing
// happens inside the other services' transactions.
type AuditService struct {
	stg storage.IStorage
	acl *access.Evaluator
	log *logrus.Logger
}

func NewAuditService(stg storage.IStorage, acl *access.Evaluator, log *logrus.Logger) *AuditService {
	return &AuditService{stg: stg, acl: acl, log: log}
}

// List returns the newest audit entries first.
func (s *AuditService) List(actor access.Actor, limit, offset int) ([]models.AuditEntry, error) {
	if err := s.acl.Require(actor, access.ActionViewAudit, 0); err != nil {
		return nil, err
	}
	return s.stg.Audit().List(limit, offset)
}
