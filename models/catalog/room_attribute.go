package catalog

import (
	"time"
)

// RoomAttribute is upstream reference data describing room features.
type RoomAttribute struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code string `gorm:"type:varchar(64);not null;unique" json:"code"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the RoomAttribute model
func (RoomAttribute) TableName() string {
	return "room_attributes"
}
