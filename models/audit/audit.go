package audit

import (
	"time"
)

// AuditLog is an append-only record of a state-changing action. Rows are
// never updated or deleted by the application; retention is an operational
// concern.
type AuditLog struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EntityName  string    `gorm:"type:varchar(100);not null;index" json:"entity_name"`
	EntityID    string    `gorm:"type:varchar(100);not null;index" json:"entity_id"`
	Action      string    `gorm:"type:varchar(50);not null" json:"action"`
	ActorUserID uint      `gorm:"not null;index" json:"actor_user_id"`
	Payload     string    `gorm:"type:text" json:"payload"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName sets the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}
