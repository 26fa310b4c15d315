package models

import "gorm.io/gorm"

// AuditEntry records who did what to which entity. Written alongside every
// workflow and payment mutation, in the same transaction.
type AuditEntry struct {
	gorm.Model
	ActorID    uint   `json:"actor_id" gorm:"index"`
	Action     string `json:"action" gorm:"index"`
	EntityType string `json:"entity_type"`
	EntityID   uint   `json:"entity_id" gorm:"index"`
	Detail     string `json:"detail"`
}
