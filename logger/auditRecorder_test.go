package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	auditModel "hotel-broker/models/audit"
)

type stubAuditCreator struct {
	entries []auditModel.AuditLog
}

func (s *stubAuditCreator) Create(_ context.Context, entry *auditModel.AuditLog) error {
	s.entries = append(s.entries, *entry)
	return nil
}

func TestAuditRecorderPersistsQueuedEntries(t *testing.T) {
	repo := &stubAuditCreator{}
	rec := NewAuditRecorder(repo)

	rec.Record(auditModel.AuditLog{EntityName: "reservation", EntityID: "RSV-1", Action: "booking.created"})
	rec.Record(auditModel.AuditLog{EntityName: "reservation", EntityID: "RSV-1", Action: "booking.confirmed"})
	close(rec.channel)
	rec.Process()

	if assert.Len(t, repo.entries, 2) {
		assert.Equal(t, "booking.created", repo.entries[0].Action)
		assert.Equal(t, "booking.confirmed", repo.entries[1].Action)
	}
}

func TestAuditRecorderDropsInsteadOfBlockingWhenFull(t *testing.T) {
	rec := NewAuditRecorder(&stubAuditCreator{})

	// No drain goroutine running: fill the buffer and push one more.
	// Record must return instead of stalling the caller.
	for i := 0; i <= cap(rec.channel); i++ {
		rec.Record(auditModel.AuditLog{EntityName: "reservation", EntityID: "RSV-1", Action: "booking.created"})
	}

	assert.Equal(t, cap(rec.channel), len(rec.channel))
}
