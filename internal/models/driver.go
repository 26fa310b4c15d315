package models

import (
	"time"

	"gorm.io/gorm"
)

// LicenseCategories is the set of license categories the regulator accepts.
var LicenseCategories = []string{"A-I", "A-IIa", "A-IIb", "A-IIIa", "A-IIIb", "A-IIIc"}

// ValidLicenseCategory reports whether category is accepted.
func ValidLicenseCategory(category string) bool {
	for _, c := range LicenseCategories {
		if c == category {
			return true
		}
	}
	return false
}

type Driver struct {
	gorm.Model
	NationalID string `json:"national_id" gorm:"unique;not null"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`

	CompanyID uint    `json:"company_id" gorm:"index"`
	Company   Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`

	LicenseNumber   string    `json:"license_number" gorm:"unique;not null"`
	LicenseCategory string    `json:"license_category"`
	LicenseExpiry   time.Time `json:"license_expiry" gorm:"index"`

	MedicalCertNumber string     `json:"medical_cert_number"`
	MedicalCertExpiry *time.Time `json:"medical_cert_expiry,omitempty" gorm:"index"`

	// Projection of the current authorization request's state. Written
	// only together with the request, inside the same transaction.
	State DriverState `json:"state" gorm:"index;default:pending"`

	Log []DriverLogEntry `json:"log,omitempty" gorm:"foreignKey:DriverID"`
}

// LicenseValidOn reports whether the license is unexpired as of the given
// time.
func (d *Driver) LicenseValidOn(t time.Time) bool {
	return !d.LicenseExpiry.Before(truncateToDay(t))
}

// MedicalCertValidOn reports whether the medical certificate exists and is
// unexpired as of the given time.
func (d *Driver) MedicalCertValidOn(t time.Time) bool {
	if d.MedicalCertExpiry == nil {
		return false
	}
	return !d.MedicalCertExpiry.Before(truncateToDay(t))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DriverLogEntry is one record of the driver's append-only narrative log.
// Entries are only ever inserted, never updated or deleted.
type DriverLogEntry struct {
	gorm.Model
	DriverID  uint        `json:"driver_id" gorm:"index"`
	ActorID   uint        `json:"actor_id"`
	FromState DriverState `json:"from_state"`
	ToState   DriverState `json:"to_state"`
	Note      string      `json:"note"`
}
