package quotecache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the in-process session store. Eviction is lazy: entries past
// the grace window are dropped when touched, and a sweep runs opportunistically
// on Put so an idle key set does not grow without bound.
type MemoryStore struct {
	mu        sync.Mutex
	items     map[string]*Session
	lastSweep time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*Session), lastSweep: time.Now()}
}

const sweepInterval = 5 * time.Minute

func (m *MemoryStore) Put(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[s.ID] = s

	if now := time.Now(); now.Sub(m.lastSweep) > sweepInterval {
		for id, entry := range m.items {
			if now.After(entry.ExpiresAt.Add(evictionGrace)) {
				delete(m.items, id)
			}
		}
		m.lastSweep = now
	}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(entry.ExpiresAt.Add(evictionGrace)) {
		delete(m.items, id)
		return nil, ErrNotFound
	}
	return entry, nil
}
