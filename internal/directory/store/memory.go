package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"memento/internal/directory"
	id "memento/pkg/domain"
	"memento/pkg/platform/sentinel"
)

// InMemoryDirectory implements every directory port for demo mode and tests.
type InMemoryDirectory struct {
	mu         sync.RWMutex
	accounts   map[id.AccountID]*directory.Account
	contacts   map[id.AccountID][]directory.TrustedContact
	directives map[id.AccountID][]directory.AssetDirective
	wills      map[id.AccountID]directory.WillDocument
}

func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{
		accounts:   make(map[id.AccountID]*directory.Account),
		contacts:   make(map[id.AccountID][]directory.TrustedContact),
		directives: make(map[id.AccountID][]directory.AssetDirective),
		wills:      make(map[id.AccountID]directory.WillDocument),
	}
}

func (s *InMemoryDirectory) PutAccount(a directory.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := a
	s.accounts[a.ID] = &cp
}

func (s *InMemoryDirectory) AddContact(c directory.TrustedContact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[c.AccountID] = append(s.contacts[c.AccountID], c)
}

func (s *InMemoryDirectory) AddDirective(d directory.AssetDirective) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.directives[d.AccountID] = append(s.directives[d.AccountID], d)
}

func (s *InMemoryDirectory) PutWillDocument(w directory.WillDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wills[w.AccountID] = w
}

func (s *InMemoryDirectory) FindByID(_ context.Context, accountID id.AccountID) (*directory.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *InMemoryDirectory) FindByUsername(_ context.Context, username string) (*directory.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.Username, username) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// MarkDeceased sets deceasedOn once and reports whether this call set it.
// Later calls keep the first date and return false.
func (s *InMemoryDirectory) MarkDeceased(_ context.Context, accountID id.AccountID, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return false, sentinel.ErrNotFound
	}
	if a.DeceasedOn != nil {
		return false, nil
	}
	t := at
	a.DeceasedOn = &t
	return true, nil
}

func (s *InMemoryDirectory) ListByAccount(_ context.Context, accountID id.AccountID) ([]directory.TrustedContact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]directory.TrustedContact{}, s.contacts[accountID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryDirectory) ListDirectives(_ context.Context, accountID id.AccountID) ([]directory.AssetDirective, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]directory.AssetDirective{}, s.directives[accountID]...), nil
}

func (s *InMemoryDirectory) FindWillDocument(_ context.Context, accountID id.AccountID) (*directory.WillDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wills[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &w, nil
}
