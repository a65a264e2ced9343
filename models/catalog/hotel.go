package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ImageList is stored as a JSON column.
type ImageList []string

// Scan implements the Scanner interface for database deserialization
func (il *ImageList) Scan(value interface{}) error {
	if value == nil {
		*il = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, il)
}

// Value implements the driver Valuer interface for database serialization
func (il ImageList) Value() (driver.Value, error) {
	if il == nil {
		return nil, nil
	}
	return json.Marshal(il)
}

// Hotel is the locally persisted hotel catalog row. Name, Description,
// Stars, Address, Images, RevisionDate and the facility links are
// upstream-owned and overwritten on every sync; ID, LocationID and
// IsManuallyManaged are local-owned and never touched by sync.
type Hotel struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code string `gorm:"type:varchar(64);not null;unique" json:"code"`

	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Stars       int       `gorm:"type:int" json:"stars"`
	Address     string    `gorm:"type:text" json:"address"`
	Images      ImageList `gorm:"type:json" json:"images"`

	LocationID *uint     `gorm:"index" json:"location_id,omitempty"`
	Location   *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`

	Facilities []Facility `gorm:"many2many:hotel_facilities" json:"facilities"`

	// IsManuallyManaged marks hotels whose content is curated locally.
	// Sync still refreshes upstream-owned fields but operators rely on the
	// flag to review changes.
	IsManuallyManaged bool `gorm:"not null;default:false" json:"is_manually_managed"`

	// RevisionDate is the upstream last-modified marker used for
	// incremental sync.
	RevisionDate *time.Time `gorm:"index" json:"revision_date,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Hotel model
func (Hotel) TableName() string {
	return "hotels"
}
