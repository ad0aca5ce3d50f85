package store

import (
	"context"
	"sync"

	"memento/internal/notify"
)

type InMemoryLog struct {
	mu      sync.RWMutex
	entries []notify.LogEntry
}

func NewInMemoryLog() *InMemoryLog {
	return &InMemoryLog{}
}

func (s *InMemoryLog) Append(_ context.Context, entry notify.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// ListRecent returns up to limit entries, newest first.
func (s *InMemoryLog) ListRecent(_ context.Context, limit int) ([]notify.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]notify.LogEntry, 0, min(limit, len(s.entries)))
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

func (s *InMemoryLog) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}
