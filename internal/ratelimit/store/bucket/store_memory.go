package bucket

import (
	"context"
	"slices"
	"sync"
	"time"

	"memento/internal/ratelimit/models"
	"memento/pkg/requestcontext"
)

// pruneEvery is how many Allow calls pass between scans for idle keys.
const pruneEvery = 1024

// InMemoryBucketStore keeps the hit times inside the window for each key.
// Limits hold within one process only; RedisBucketStore shares them across
// replicas.
type InMemoryBucketStore struct {
	mu    sync.Mutex
	hits  map[string]*window
	calls int
}

type window struct {
	size time.Duration
	at   []time.Time // oldest first
}

func NewInMemoryBucketStore() *InMemoryBucketStore {
	return &InMemoryBucketStore{hits: make(map[string]*window)}
}

// Allow records a hit for key unless limit hits already fall inside size.
func (s *InMemoryBucketStore) Allow(ctx context.Context, key string, limit int, size time.Duration) (*models.RateLimitResult, error) {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.calls%pruneEvery == 0 {
		s.pruneIdle(now)
	}

	w, ok := s.hits[key]
	if !ok {
		w = &window{size: size}
		s.hits[key] = w
	}
	w.size = size
	w.expire(now)

	if len(w.at) >= limit {
		return models.Denied(limit, w.at[0].Add(size), now), nil
	}
	w.at = append(w.at, now)
	return &models.RateLimitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(w.at),
		ResetAt:   w.at[0].Add(size),
	}, nil
}

func (s *InMemoryBucketStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hits, key)
	return nil
}

// Len reports how many keys are tracked.
func (s *InMemoryBucketStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hits)
}

// expire drops hits at or before now-size.
func (w *window) expire(now time.Time) {
	cutoff := now.Add(-w.size)
	i := slices.IndexFunc(w.at, func(t time.Time) bool { return t.After(cutoff) })
	if i < 0 {
		w.at = w.at[:0]
		return
	}
	w.at = w.at[i:]
}

// pruneIdle forgets keys with no hit inside their window. Caller holds s.mu.
func (s *InMemoryBucketStore) pruneIdle(now time.Time) {
	for key, w := range s.hits {
		w.expire(now)
		if len(w.at) == 0 {
			delete(s.hits, key)
		}
	}
}
