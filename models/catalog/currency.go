package catalog

import (
	"time"
)

// Currency is upstream reference data. Code, Name and Symbol are
// upstream-owned; the numeric ID is local.
type Currency struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code   string `gorm:"type:varchar(10);not null;unique" json:"code"`
	Name   string `gorm:"type:varchar(100);not null" json:"name"`
	Symbol string `gorm:"type:varchar(10)" json:"symbol"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Currency model
func (Currency) TableName() string {
	return "currencies"
}
