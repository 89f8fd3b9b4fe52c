package session

import (
	"context"
	"sync"
	"time"

	"civreg/pkg/domain"
	"civreg/pkg/platform/sentinel"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryStore keeps encoded sessions so callers never share state through
// the store.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]memoryEntry
	now      func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[domain.SessionID]memoryEntry), now: time.Now}
}

func (s *InMemoryStore) Get(_ context.Context, id domain.SessionID) (*Session, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || !s.now().Before(entry.expiresAt) {
		return nil, sentinel.ErrNotFound
	}
	return decode(entry.data)
}

func (s *InMemoryStore) Save(_ context.Context, sess *Session, ttl time.Duration) error {
	data, err := encode(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = memoryEntry{data: data, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Count returns the number of live sessions.
func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	n := 0
	for _, e := range s.sessions {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n, nil
}

// DeleteExpired drops sessions past their expiry and reports how many went.
func (s *InMemoryStore) DeleteExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}
