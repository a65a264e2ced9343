package pricing

import (
	"time"
)

// CommissionKind determines how a commission value is computed.
type CommissionKind string

const (
	CommissionKindPercentage CommissionKind = "percentage"
	CommissionKindFixed      CommissionKind = "fixed"
)

func (k CommissionKind) IsValid() bool {
	switch k {
	case CommissionKindPercentage, CommissionKindFixed:
		return true
	default:
		return false
	}
}

// Commission is the agency-side earning on a booking. It is informational
// to the agency ledger and never subtracted from the customer-facing price.
type Commission struct {
	ID       uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	AgencyID string         `gorm:"type:varchar(64);not null;index" json:"agency_id"`
	Kind     CommissionKind `gorm:"type:varchar(30);not null" json:"kind"`
	Value    float64        `gorm:"type:numeric(12,2);not null" json:"value"`

	HotelCode *string `gorm:"type:varchar(64);index" json:"hotel_code,omitempty"`
	BoardType *string `gorm:"type:varchar(64)" json:"board_type,omitempty"`

	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`
	Priority int  `gorm:"not null;default:0" json:"priority"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Commission model
func (Commission) TableName() string {
	return "commissions"
}
