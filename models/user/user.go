package user

import (
	"time"
)

// Role classifies the caller for authorization and pricing scope purposes.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleAgency   Role = "agency"
	RoleCustomer Role = "customer"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleAgency, RoleCustomer:
		return true
	default:
		return false
	}
}

// User model with fields based on the JWT token structure
type User struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Uuid      string  `gorm:"type:varchar(255);not null;unique" json:"uuid"`
	Username  string  `gorm:"type:varchar(255);not null;unique" json:"username"`
	LegalName string  `gorm:"type:varchar(255);not null" json:"legal_name"`
	Email     *string `gorm:"type:varchar(255);unique" json:"email"`
	Phone     string  `gorm:"type:varchar(20)" json:"phone"`
	Role      Role    `gorm:"type:varchar(20);not null;default:customer" json:"role"`

	// AgencyID is set only for agency users and scopes their reservations
	// and commission resolution.
	AgencyID *string `gorm:"type:varchar(64);index" json:"agency_id,omitempty"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}
