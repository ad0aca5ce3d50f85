// Package store persists scheduled deliverables and the release ledger.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"memento/internal/release/models"
	id "memento/pkg/domain"
	"memento/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu           sync.RWMutex
	deliverables map[id.DeliverableID]*models.Deliverable
	ledger       []models.LedgerEntry
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{deliverables: make(map[id.DeliverableID]*models.Deliverable)}
}

func (s *InMemoryStore) Create(_ context.Context, d *models.Deliverable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deliverables[d.ID]; ok {
		return sentinel.ErrConflict
	}
	s.deliverables[d.ID] = clone(d)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, deliverableID id.DeliverableID) (*models.Deliverable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.deliverables[deliverableID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(d), nil
}

func (s *InMemoryStore) ListByOwner(_ context.Context, owner id.AccountID) ([]*models.Deliverable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Deliverable
	for _, d := range s.deliverables {
		if d.OwnerAccountID == owner {
			out = append(out, clone(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// UpdateIfUnreleased replaces the stored deliverable unless it was released
// in the meantime.
func (s *InMemoryStore) UpdateIfUnreleased(_ context.Context, d *models.Deliverable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.deliverables[d.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if cur.Released {
		return sentinel.ErrInvalidState
	}
	next := clone(d)
	next.Released, next.ReleasedAt = false, nil
	s.deliverables[d.ID] = next
	return nil
}

func (s *InMemoryStore) DeleteIfUnreleased(_ context.Context, deliverableID id.DeliverableID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.deliverables[deliverableID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if cur.Released {
		return sentinel.ErrInvalidState
	}
	delete(s.deliverables, deliverableID)
	return nil
}

func (s *InMemoryStore) ListUnreleasedOnDeath(_ context.Context, owners []id.AccountID) ([]*models.Deliverable, error) {
	want := make(map[id.AccountID]bool, len(owners))
	for _, o := range owners {
		want[o] = true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Deliverable
	for _, d := range s.deliverables {
		if !d.Released && d.Policy == models.PolicyOnDeath && want[d.OwnerAccountID] {
			out = append(out, clone(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) ListDueOnDate(_ context.Context, now time.Time) ([]*models.Deliverable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Deliverable
	for _, d := range s.deliverables {
		if d.DueOn(now) {
			out = append(out, clone(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReleaseAt.Before(*out[j].ReleaseAt) })
	return out, nil
}

// ReleaseIfUnreleased flips released once. The second caller gets false.
func (s *InMemoryStore) ReleaseIfUnreleased(_ context.Context, deliverableID id.DeliverableID, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deliverables[deliverableID]
	if !ok {
		return false, sentinel.ErrNotFound
	}
	if d.Released {
		return false, nil
	}
	t := now
	d.Released = true
	d.ReleasedAt = &t
	d.UpdatedAt = now
	return true, nil
}

func (s *InMemoryStore) AppendLedger(_ context.Context, entry models.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.ledger {
		if e.DeliverableID == entry.DeliverableID {
			return sentinel.ErrConflict
		}
	}
	s.ledger = append(s.ledger, entry)
	return nil
}

// ListLedger returns the most recent entries first.
func (s *InMemoryStore) ListLedger(_ context.Context, limit int) ([]models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.LedgerEntry, 0, len(s.ledger))
	for i := len(s.ledger) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, s.ledger[i])
	}
	return out, nil
}

func (s *InMemoryStore) CountLedger(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ledger), nil
}

func (s *InMemoryStore) CountReleased(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, d := range s.deliverables {
		if d.Released {
			n++
		}
	}
	return n, nil
}

func clone(d *models.Deliverable) *models.Deliverable {
	cp := *d
	if d.ReleaseAt != nil {
		t := *d.ReleaseAt
		cp.ReleaseAt = &t
	}
	if d.ReleasedAt != nil {
		t := *d.ReleasedAt
		cp.ReleasedAt = &t
	}
	return &cp
}
