package catalog

import (
	"time"
)

// Facility is upstream reference data (pool, wifi, parking, ...).
type Facility struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code string `gorm:"type:varchar(64);not null;unique" json:"code"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`
	// Group is the upstream facility category.
	Group string `gorm:"type:varchar(100);column:facility_group" json:"group"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Facility model
func (Facility) TableName() string {
	return "facilities"
}
