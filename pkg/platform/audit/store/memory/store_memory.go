package memory

import (
	"context"
	"sync"

	id "memento/pkg/domain"
	audit "memento/pkg/platform/audit"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByAccount(_ context.Context, accountID id.AccountID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Event
	for _, e := range s.events {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListRecent returns up to limit events, newest last.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := len(s.events) - limit
	if start < 0 {
		start = 0
	}
	return append([]audit.Event{}, s.events[start:]...), nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
