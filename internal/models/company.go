package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Company is a transport operator registered with the regulator. Drivers
// are always attached to exactly one company.
type Company struct {
	gorm.Model
	Name   string `json:"name" binding:"required"`
	TaxID  string `json:"tax_id" gorm:"unique;not null"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Active bool   `json:"active" gorm:"default:true;index"`

	// Service categories the company is authorized to operate
	// (e.g. passengers, freight, tourism).
	ServiceCategories pq.StringArray `json:"service_categories" gorm:"type:text[]"`

	Drivers []Driver `json:"drivers,omitempty" gorm:"foreignKey:CompanyID"`
}

// Authorized reports whether the company may operate the given category.
func (c *Company) Authorized(category string) bool {
	for _, sc := range c.ServiceCategories {
		if sc == category {
			return true
		}
	}
	return false
}
