package quotecache

import (
	"context"
)

// Store persists sessions keyed by id. Implementations must keep a session
// retrievable for at least Validity+evictionGrace after creation; physical
// cleanup beyond that is up to the implementation. Sessions are never
// updated after Put.
type Store interface {
	Put(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error) // ErrNotFound when absent
}
