package quotecache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreGetUnknownID(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "nope")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStorePutGetRoundtrip(t *testing.T) {
	store := NewMemoryStore()
	session := &Session{
		ID:        "s-1",
		HotelCode: "HTL-1",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(Validity),
	}

	assert.NoError(t, store.Put(context.Background(), session))

	got, err := store.Get(context.Background(), "s-1")
	assert.NoError(t, err)
	assert.Equal(t, session, got)
}

func TestMemoryStoreKeepsExpiredSessionWithinGrace(t *testing.T) {
	store := NewMemoryStore()
	// Expired ten minutes ago but still inside the grace window, so the
	// entry must survive for lookups to report "expired" not "not found".
	session := &Session{
		ID:        "s-1",
		CreatedAt: time.Now().Add(-40 * time.Minute),
		ExpiresAt: time.Now().Add(-10 * time.Minute),
	}
	assert.NoError(t, store.Put(context.Background(), session))

	got, err := store.Get(context.Background(), "s-1")

	assert.NoError(t, err)
	assert.True(t, got.Expired(time.Now()))
}

func TestMemoryStoreDropsSessionPastGrace(t *testing.T) {
	store := NewMemoryStore()
	session := &Session{
		ID:        "s-1",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-90 * time.Minute),
	}
	assert.NoError(t, store.Put(context.Background(), session))

	_, err := store.Get(context.Background(), "s-1")

	assert.ErrorIs(t, err, ErrNotFound)
}
