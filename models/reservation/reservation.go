package reservation

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"hotel-broker/models/user"
)

// Guest is one occupant on a reservation.
type Guest struct {
	Type      string `json:"type"` // adult or child
	Title     string `json:"title,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       int    `json:"age,omitempty"`
}

// GuestList is stored as a JSON column.
type GuestList []Guest

// Scan implements the Scanner interface for database deserialization
func (gl *GuestList) Scan(value interface{}) error {
	if value == nil {
		*gl = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, gl)
}

// Value implements the driver Valuer interface for database serialization
func (gl GuestList) Value() (driver.Value, error) {
	if gl == nil {
		return nil, nil
	}
	return json.Marshal(gl)
}

// CancellationPolicy is the penalty schedule snapshot taken at quote time.
type CancellationPolicy struct {
	From   time.Time `json:"from"`
	Amount float64   `json:"amount"`
	Note   string    `json:"note,omitempty"`
}

// PolicyList is stored as a JSON column.
type PolicyList []CancellationPolicy

// Scan implements the Scanner interface for database deserialization
func (pl *PolicyList) Scan(value interface{}) error {
	if value == nil {
		*pl = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, pl)
}

// Value implements the driver Valuer interface for database serialization
func (pl PolicyList) Value() (driver.Value, error) {
	if pl == nil {
		return nil, nil
	}
	return json.Marshal(pl)
}

// Reservation is the local record of a booking against the upstream provider.
type Reservation struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Reference is the public opaque identifier handed to callers.
	Reference string `gorm:"type:varchar(64);not null;unique" json:"reference"`

	// BookingNumber is issued by the provider and stays empty until the
	// booking is confirmed upstream.
	BookingNumber string `gorm:"type:varchar(100);index" json:"booking_number"`

	// ClientReferenceID is the caller-issued idempotency key. The unique
	// constraint is what makes concurrent retries collapse to one row.
	ClientReferenceID string `gorm:"type:varchar(100);not null;unique" json:"client_reference_id"`

	Status Status `gorm:"type:varchar(20);not null;index" json:"status"`

	UserID   uint      `gorm:"not null;index" json:"user_id"`
	User     user.User `gorm:"foreignKey:UserID" json:"user"`
	AgencyID *string   `gorm:"type:varchar(64);index" json:"agency_id,omitempty"`

	HotelCode    string    `gorm:"type:varchar(64);not null;index" json:"hotel_code"`
	RoomCode     string    `gorm:"type:varchar(64);not null" json:"room_code"`
	BoardType    string    `gorm:"type:varchar(64)" json:"board_type"`
	PriceCode    string    `gorm:"type:varchar(255);not null" json:"price_code"`
	CheckInDate  time.Time `gorm:"not null" json:"check_in_date"`
	CheckOutDate time.Time `gorm:"not null" json:"check_out_date"`

	ContactName  string `gorm:"type:varchar(255);not null" json:"contact_name"`
	ContactEmail string `gorm:"type:varchar(255)" json:"contact_email"`
	ContactPhone string `gorm:"type:varchar(20)" json:"contact_phone"`

	Guests GuestList `gorm:"type:json" json:"guests"`

	BasePrice     float64 `gorm:"type:numeric(12,2);not null" json:"base_price"`
	FinalPrice    float64 `gorm:"type:numeric(12,2);not null" json:"final_price"`
	Currency      string  `gorm:"type:varchar(10);not null" json:"currency"`
	AppliedRuleID *uint   `gorm:"index" json:"applied_rule_id,omitempty"`

	CommissionID     *uint    `gorm:"index" json:"commission_id,omitempty"`
	CommissionAmount *float64 `gorm:"type:numeric(12,2)" json:"commission_amount,omitempty"`

	CancellationPolicies PolicyList `gorm:"type:json" json:"cancellation_policies"`

	// CancellationFee is the penalty the provider reported when the
	// booking was cancelled.
	CancellationFee *float64 `gorm:"type:numeric(12,2)" json:"cancellation_fee,omitempty"`

	FailureReason *string `gorm:"type:text" json:"failure_reason,omitempty"`

	CreatedBy   string     `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}
