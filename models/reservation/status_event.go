package reservation

import (
	"time"
)

// StatusEvent represents a status change event for a reservation
type StatusEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for reservation relationship
	ReservationID uint        `gorm:"not null;index" json:"reservation_id"`
	Reservation   Reservation `gorm:"foreignKey:ReservationID" json:"reservation"`

	Status    Status    `gorm:"size:20;not null" json:"status"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedBy string    `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the StatusEvent model
func (StatusEvent) TableName() string {
	return "reservation_status_events"
}
