package catalog

import (
	"time"
)

// BoardType is upstream reference data (room-only, half board, and so on).
type BoardType struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string `gorm:"type:varchar(64);not null;unique" json:"code"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the BoardType model
func (BoardType) TableName() string {
	return "board_types"
}
