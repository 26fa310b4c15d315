package models

import "gorm.io/gorm"

// Role of a system user. CompanyManager accounts must carry a company
// affiliation; the other roles are regulator staff and never do.
type Role string

const (
	RoleSuperAdmin     Role = "super_admin"
	RoleDirector       Role = "director"
	RoleDeputy         Role = "deputy"
	RoleOperator       Role = "operator"
	RoleCompanyManager Role = "company_manager"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleSuperAdmin, RoleDirector, RoleDeputy, RoleOperator, RoleCompanyManager:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Email        string `json:"email" gorm:"unique;not null"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         Role   `json:"role" gorm:"index"`
	Active       bool   `json:"active" gorm:"default:true"`

	// Set only for company managers.
	CompanyID *uint    `json:"company_id,omitempty" gorm:"index"`
	Company   *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
}
