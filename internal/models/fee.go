package models

import (
	"time"

	"gorm.io/gorm"
)

// FeeScheduleEntry prices a procedure code over a validity window.
// ValidUntil nil means the entry stays in force until deactivated.
type FeeScheduleEntry struct {
	gorm.Model
	Code        string     `json:"code" gorm:"index;not null"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount" gorm:"type:numeric(10,2)"`
	ValidFrom   time.Time  `json:"valid_from"`
	ValidUntil  *time.Time `json:"valid_until,omitempty"`
	Active      bool       `json:"active" gorm:"default:true;index"`
}

// InForceOn reports whether the entry is active and its window contains t.
func (f *FeeScheduleEntry) InForceOn(t time.Time) bool {
	if !f.Active {
		return false
	}
	day := truncateToDay(t)
	if day.Before(truncateToDay(f.ValidFrom)) {
		return false
	}
	if f.ValidUntil != nil && day.After(truncateToDay(*f.ValidUntil)) {
		return false
	}
	return true
}
