package pricing

import (
	"time"
)

// RuleKind determines how a rule's value is applied to the base price.
type RuleKind string

const (
	RuleKindPercentageDiscount RuleKind = "percentage_discount"
	RuleKindFixedDiscount      RuleKind = "fixed_discount"
	RuleKindMarkup             RuleKind = "markup"
)

func (k RuleKind) IsValid() bool {
	switch k {
	case RuleKindPercentageDiscount, RuleKindFixedDiscount, RuleKindMarkup:
		return true
	default:
		return false
	}
}

// Scope is the class of caller a rule or commission applies to.
type Scope string

const (
	ScopeAllAgencies    Scope = "all_agencies"
	ScopeSpecificAgency Scope = "specific_agency"
	ScopeAllCustomers   Scope = "all_customers"
)

func (s Scope) IsValid() bool {
	switch s {
	case ScopeAllAgencies, ScopeSpecificAgency, ScopeAllCustomers:
		return true
	default:
		return false
	}
}

// PriceRule transforms an upstream quoted price into the chargeable price.
// Rules are maintained by administrators and read-only to the pricing path.
type PriceRule struct {
	ID    uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string   `gorm:"type:varchar(255);not null" json:"name"`
	Kind  RuleKind `gorm:"type:varchar(30);not null" json:"kind"`
	Value float64  `gorm:"type:numeric(12,2);not null" json:"value"`

	Scope    Scope   `gorm:"type:varchar(30);not null" json:"scope"`
	AgencyID *string `gorm:"type:varchar(64);index" json:"agency_id,omitempty"`

	// Optional filters; nil matches everything.
	HotelCode *string `gorm:"type:varchar(64);index" json:"hotel_code,omitempty"`
	BoardType *string `gorm:"type:varchar(64)" json:"board_type,omitempty"`

	// Optional active window, inclusive of both bounds at day granularity.
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`
	Priority int  `gorm:"not null;default:0" json:"priority"`

	CreatedBy string    `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the PriceRule model
func (PriceRule) TableName() string {
	return "price_rules"
}
