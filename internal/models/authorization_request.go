package models

import (
	"time"

	"gorm.io/gorm"
)

// AuthorizationRequest tracks a driver's path to being enabled to operate.
// A driver has at most one request in a non-terminal state at any time.
type AuthorizationRequest struct {
	gorm.Model
	DriverID uint   `json:"driver_id" gorm:"index"`
	Driver   Driver `json:"driver,omitempty" gorm:"foreignKey:DriverID"`

	// Human-readable code generated once at creation.
	Code  string       `json:"code" gorm:"unique;not null"`
	State RequestState `json:"state" gorm:"index;default:requested"`

	ReviewedByID *uint      `json:"reviewed_by_id,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	ApprovedByID *uint      `json:"approved_by_id,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	EnabledByID  *uint      `json:"enabled_by_id,omitempty"`
	EnabledAt    *time.Time `json:"enabled_at,omitempty"`

	// End of the authorization's validity, set once on enablement.
	ValidUntil *time.Time `json:"valid_until,omitempty" gorm:"index"`

	Log []RequestLogEntry `json:"log,omitempty" gorm:"foreignKey:RequestID"`
}

// ValidOn reports whether the request grants a live authorization as of t.
func (r *AuthorizationRequest) ValidOn(t time.Time) bool {
	if r.State != RequestEnabled {
		return false
	}
	if r.ValidUntil == nil {
		return true
	}
	return !r.ValidUntil.Before(truncateToDay(t))
}

// RequestLogEntry is one record of the request's append-only narrative log.
type RequestLogEntry struct {
	gorm.Model
	RequestID uint         `json:"request_id" gorm:"index"`
	ActorID   uint         `json:"actor_id"`
	FromState RequestState `json:"from_state"`
	ToState   RequestState `json:"to_state"`
	Note      string       `json:"note"`
}
