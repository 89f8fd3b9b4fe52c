package session

import (
	"context"
	"time"

	"civreg/pkg/domain"
)

// Store persists sessions until they expire. Get returns sentinel.ErrNotFound
// for unknown or expired sessions.
type Store interface {
	Get(ctx context.Context, id domain.SessionID) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id domain.SessionID) error
	Count(ctx context.Context) (int, error)
}
