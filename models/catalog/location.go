package catalog

import (
	"time"
)

// Location is upstream reference data for a destination. ParentID builds the
// country/region/city hierarchy and is resolved locally from the upstream
// parent code during sync.
type Location struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code string `gorm:"type:varchar(64);not null;unique" json:"code"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`
	Kind string `gorm:"type:varchar(50)" json:"kind"`

	CountryCode string `gorm:"type:varchar(10);index" json:"country_code"`

	ParentID *uint     `gorm:"index" json:"parent_id,omitempty"`
	Parent   *Location `gorm:"foreignKey:ParentID" json:"parent,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Location model
func (Location) TableName() string {
	return "locations"
}
