package audit

import (
	"context"
	"sync"
)

// DefaultSessionCapacity bounds pending events per session.
const DefaultSessionCapacity = 50

// InMemoryStore keeps events per session, dropping the oldest beyond capacity.
type InMemoryStore struct {
	mu       sync.RWMutex
	events   map[string][]Event
	capacity int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]Event), capacity: DefaultSessionCapacity}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append(s.events[event.SessionID], event)
	if over := len(list) - s.capacity; over > 0 {
		list = append([]Event(nil), list[over:]...)
	}
	s.events[event.SessionID] = list
	return nil
}

func (s *InMemoryStore) ListBySession(_ context.Context, sessionID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[sessionID]...), nil
}

func (s *InMemoryStore) Drain(_ context.Context, sessionID string) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events[sessionID]
	delete(s.events, sessionID)
	return append([]Event{}, events...), nil
}
