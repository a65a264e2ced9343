package logger

import (
	"context"
	"fmt"

	auditModel "hotel-broker/models/audit"
)

type auditCreator interface {
	Create(ctx context.Context, entry *auditModel.AuditLog) error
}

// AuditRecorder persists audit entries asynchronously so the booking path
// never blocks on audit I/O. Entries flow through a buffered channel into a
// single background goroutine.
type AuditRecorder struct {
	repo    auditCreator
	channel chan auditModel.AuditLog
}

func NewAuditRecorder(repo auditCreator) *AuditRecorder {
	return &AuditRecorder{
		repo:    repo,
		channel: make(chan auditModel.AuditLog, 100),
	}
}

// Process drains the channel. Run it in its own goroutine at startup.
func (a *AuditRecorder) Process() {
	Info("audit recorder started")
	for entry := range a.channel {
		if err := a.repo.Create(context.Background(), &entry); err != nil {
			Error(fmt.Sprintf("failed to persist audit entry %s/%s", entry.EntityName, entry.EntityID), err)
		}
	}
}

// Record queues an audit entry for persistence. When the buffer is full the
// entry is dropped and logged instead of stalling the caller.
func (a *AuditRecorder) Record(entry auditModel.AuditLog) {
	select {
	case a.channel <- entry:
	default:
		Warning(fmt.Sprintf("audit buffer full, dropped entry %s/%s %s", entry.EntityName, entry.EntityID, entry.Action))
	}
}
