package catalog

import (
	"time"
)

// SyncRun records one execution of the content sync engine. LastRevisionDate
// of the most recent successful run feeds the next incremental hotel fetch.
type SyncRun struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	FeedID     string     `gorm:"type:varchar(64);not null;index" json:"feed_id"`
	StartedAt  time.Time  `gorm:"not null" json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Succeeded  bool       `gorm:"not null;default:false" json:"succeeded"`

	// Summary is the per-entity created/updated/unchanged/failed counts as JSON.
	Summary string `gorm:"type:text" json:"summary"`

	LastRevisionDate *time.Time `json:"last_revision_date,omitempty"`
}

// TableName sets the table name for the SyncRun model
func (SyncRun) TableName() string {
	return "sync_runs"
}
