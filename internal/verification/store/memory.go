// Package store persists death reports and their attestation tokens.
// Stores are pure I/O; every state change is a conditional update so that
// concurrent callers cannot apply the same transition twice.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"memento/internal/verification/models"
	id "memento/pkg/domain"
	"memento/pkg/platform/sentinel"
)

// InMemoryStore keeps reports and attestations in maps behind one mutex.
type InMemoryStore struct {
	mu           sync.RWMutex
	reports      map[id.ReportID]*models.Report
	attestations map[id.AttestationID]*models.Attestation
	byHash       map[string]id.AttestationID
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		reports:      make(map[id.ReportID]*models.Report),
		attestations: make(map[id.AttestationID]*models.Attestation),
		byHash:       make(map[string]id.AttestationID),
	}
}

func (s *InMemoryStore) CreateWithAttestations(_ context.Context, report *models.Report, attestations []*models.Attestation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[report.ID]; ok {
		return sentinel.ErrConflict
	}
	seen := make(map[id.ContactID]bool, len(attestations))
	for _, a := range attestations {
		if _, ok := s.byHash[string(a.TokenHash)]; ok || seen[a.ContactID] {
			return sentinel.ErrConflict
		}
		seen[a.ContactID] = true
	}

	s.reports[report.ID] = cloneReport(report)
	for _, a := range attestations {
		c := cloneAttestation(a)
		s.attestations[a.ID] = c
		s.byHash[string(a.TokenHash)] = a.ID
	}
	return nil
}

func (s *InMemoryStore) FindReport(_ context.Context, reportID id.ReportID) (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[reportID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneReport(r), nil
}

// ListReports returns reports newest first, optionally filtered by status.
func (s *InMemoryStore) ListReports(_ context.Context, filter models.ReportFilter) ([]*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Report, 0, len(s.reports))
	for _, r := range s.reports {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, cloneReport(r))
	}
	sortNewestFirst(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *InMemoryStore) ListByTarget(_ context.Context, accountID id.AccountID) ([]*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Report
	for _, r := range s.reports {
		if r.TargetAccountID == accountID {
			out = append(out, cloneReport(r))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryStore) ListAttestations(_ context.Context, reportID id.ReportID) ([]*models.Attestation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Attestation
	for _, a := range s.attestations {
		if a.ReportID == reportID {
			out = append(out, cloneAttestation(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ContactName < out[j].ContactName
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// DecideAttestation moves the attestation identified by hash from PENDING to
// status. Returns ErrNotFound for an unknown hash and ErrAlreadyUsed when the
// token was already decided.
func (s *InMemoryStore) DecideAttestation(_ context.Context, hash []byte, status models.AttestationStatus, now time.Time) (*models.Attestation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	aid, ok := s.byHash[string(hash)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	a := s.attestations[aid]
	if a.Status != models.AttestationPending {
		return cloneAttestation(a), sentinel.ErrAlreadyUsed
	}
	a.Status = status
	t := now
	a.DecidedAt = &t
	return cloneAttestation(a), nil
}

func (s *InMemoryStore) CountConfirmed(_ context.Context, reportID id.ReportID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.attestations {
		if a.ReportID == reportID && a.Status == models.AttestationConfirmed {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryStore) ConfirmIfPending(_ context.Context, reportID id.ReportID, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[reportID]
	if !ok {
		return false, sentinel.ErrNotFound
	}
	if r.Status != models.StatusPending {
		return false, nil
	}
	r.Status = models.StatusConfirmed
	t := now
	r.ResolvedAt = &t
	return true, nil
}

// CancelActiveForTarget moves every PENDING, CONFIRMED or FINAL_CONFIRMED
// report on accountID to CANCELED_BY_OWNER and returns how many changed.
func (s *InMemoryStore) CancelActiveForTarget(_ context.Context, accountID id.AccountID, note string, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.reports {
		if r.TargetAccountID != accountID || !r.Status.IsActive() {
			continue
		}
		r.Status = models.StatusCanceledByOwner
		t := now
		r.ResolvedAt = &t
		r.AppendNote(note)
		n++
	}
	return n, nil
}

// Execute loads a report, runs validate against it and, when that passes,
// applies mutate and saves the result, all under the store lock.
func (s *InMemoryStore) Execute(_ context.Context, reportID id.ReportID, validate func(*models.Report) error, mutate func(*models.Report)) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[reportID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := cloneReport(r)
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.reports[reportID] = working
	return cloneReport(working), nil
}

func (s *InMemoryStore) ListConfirmedBefore(_ context.Context, cutoff time.Time) ([]*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Report
	for _, r := range s.reports {
		if r.Status == models.StatusConfirmed && r.ResolvedAt != nil && !r.ResolvedAt.After(cutoff) {
			out = append(out, cloneReport(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ResolvedAt.Before(*out[j].ResolvedAt) })
	return out, nil
}

// FinalizeIfConfirmed moves a CONFIRMED report to FINAL_CONFIRMED. ResolvedAt
// keeps the confirmation time.
func (s *InMemoryStore) FinalizeIfConfirmed(_ context.Context, reportID id.ReportID, note string, _ time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[reportID]
	if !ok {
		return false, sentinel.ErrNotFound
	}
	if r.Status != models.StatusConfirmed {
		return false, nil
	}
	r.Status = models.StatusFinalConfirmed
	r.AppendNote(note)
	return true, nil
}

// ListFinalizedTargets returns the distinct accounts with at least one
// FINAL_CONFIRMED report.
func (s *InMemoryStore) ListFinalizedTargets(_ context.Context) ([]id.AccountID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[id.AccountID]bool)
	var out []id.AccountID
	for _, r := range s.reports {
		if r.Status == models.StatusFinalConfirmed && !seen[r.TargetAccountID] {
			seen[r.TargetAccountID] = true
			out = append(out, r.TargetAccountID)
		}
	}
	return out, nil
}

func (s *InMemoryStore) CountByStatus(_ context.Context) (map[models.ReportStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[models.ReportStatus]int)
	for _, r := range s.reports {
		out[r.Status]++
	}
	return out, nil
}

func sortNewestFirst(reports []*models.Report) {
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
}

func cloneReport(r *models.Report) *models.Report {
	c := *r
	if r.ResolvedAt != nil {
		t := *r.ResolvedAt
		c.ResolvedAt = &t
	}
	return &c
}

func cloneAttestation(a *models.Attestation) *models.Attestation {
	c := *a
	c.TokenHash = append([]byte(nil), a.TokenHash...)
	if a.DecidedAt != nil {
		t := *a.DecidedAt
		c.DecidedAt = &t
	}
	return &c
}

// LockReport only checks that the report exists. Callers using the in-memory
// store run under tx.LocalRunner, which serializes units of work.
func (s *InMemoryStore) LockReport(_ context.Context, reportID id.ReportID) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.reports[reportID]; !ok {
		return sentinel.ErrNotFound
	}
	return nil
}
