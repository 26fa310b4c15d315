// Package services holds the licensing engine's business rules: driver
// registration, the authorization workflow, the fee schedule and the
// payment ledger. Every mutating operation checks the capability table
// first and runs its checks strictly before any write.
package services

import (
	"errors"

	"drtc/licensing/internal/apperrors"
	"drtc/licensing/internal/models"
	"drtc/licensing/internal/storage"
)

// notFoundOr converts the storage sentinel into the typed NotFound; any
// other error passes through untouched.
func notFoundOr(err error, resource string, id any) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.NotFound(resource, id)
	}
	return err
}

// recordAudit appends an audit entry inside the caller's transaction.
func recordAudit(tx storage.IStorage, actorID uint, action, entityType string, entityID uint, detail string) error {
	return tx.Audit().Append(&models.AuditEntry{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	})
}
