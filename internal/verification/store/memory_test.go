package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"memento/internal/verification/models"
	id "memento/pkg/domain"
	"memento/pkg/platform/sentinel"
)

// Justification for unit tests: the in-memory store backs demo mode and every
// service test, so its conditional updates must behave like the SQL ones.

type InMemoryStoreSuite struct {
	suite.Suite
	store  *InMemoryStore
	ctx    context.Context
	now    time.Time
	target id.AccountID
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2030, 5, 1, 8, 0, 0, 0, time.UTC)
	s.target = id.AccountID(uuid.New())
}

func (s *InMemoryStoreSuite) newReport(hashes ...string) (*models.Report, []*models.Attestation) {
	r := &models.Report{
		ID:              id.ReportID(uuid.New()),
		TargetAccountID: s.target,
		ReporterName:    "reporter",
		Status:          models.StatusPending,
		CreatedAt:       s.now,
	}
	var as []*models.Attestation
	for _, h := range hashes {
		as = append(as, &models.Attestation{
			ID:        id.AttestationID(uuid.New()),
			ReportID:  r.ID,
			ContactID: id.ContactID(uuid.New()),
			TokenHash: []byte(h),
			Status:    models.AttestationPending,
			CreatedAt: s.now,
		})
	}
	s.Require().NoError(s.store.CreateWithAttestations(s.ctx, r, as))
	return r, as
}

func (s *InMemoryStoreSuite) TestDecideAttestation() {
	s.newReport("h1", "h2")

	s.Run("pending token is decided once", func() {
		a, err := s.store.DecideAttestation(s.ctx, []byte("h1"), models.AttestationConfirmed, s.now)
		s.Require().NoError(err)
		s.Equal(models.AttestationConfirmed, a.Status)
		s.Equal(s.now, *a.DecidedAt)

		_, err = s.store.DecideAttestation(s.ctx, []byte("h1"), models.AttestationRejected, s.now)
		s.ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("unknown hash is not found", func() {
		_, err := s.store.DecideAttestation(s.ctx, []byte("nope"), models.AttestationConfirmed, s.now)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("concurrent use of one token succeeds once", func() {
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := s.store.DecideAttestation(s.ctx, []byte("h2"), models.AttestationConfirmed, s.now); err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		s.Equal(1, succeeded)
	})
}

func (s *InMemoryStoreSuite) TestDuplicateHashRejectsWholeReport() {
	s.newReport("dup")
	r := &models.Report{ID: id.ReportID(uuid.New()), TargetAccountID: s.target, Status: models.StatusPending, CreatedAt: s.now}
	err := s.store.CreateWithAttestations(s.ctx, r, []*models.Attestation{
		{ID: id.AttestationID(uuid.New()), ReportID: r.ID, ContactID: id.ContactID(uuid.New()), TokenHash: []byte("fresh")},
		{ID: id.AttestationID(uuid.New()), ReportID: r.ID, ContactID: id.ContactID(uuid.New()), TokenHash: []byte("dup")},
	})
	s.ErrorIs(err, sentinel.ErrConflict)
	_, err = s.store.FindReport(s.ctx, r.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestStatusTransitions() {
	r, _ := s.newReport("a")

	applied, err := s.store.FinalizeIfConfirmed(s.ctx, r.ID, "[auto]", s.now)
	s.Require().NoError(err)
	s.False(applied, "pending report cannot be finalized")

	applied, err = s.store.ConfirmIfPending(s.ctx, r.ID, s.now)
	s.Require().NoError(err)
	s.True(applied)

	applied, err = s.store.ConfirmIfPending(s.ctx, r.ID, s.now.Add(time.Hour))
	s.Require().NoError(err)
	s.False(applied)

	due, err := s.store.ListConfirmedBefore(s.ctx, s.now.Add(-time.Minute))
	s.Require().NoError(err)
	s.Empty(due)
	due, err = s.store.ListConfirmedBefore(s.ctx, s.now)
	s.Require().NoError(err)
	s.Len(due, 1)

	applied, err = s.store.FinalizeIfConfirmed(s.ctx, r.ID, "[auto] finalized after dwell elapsed", s.now.Add(73*time.Hour))
	s.Require().NoError(err)
	s.True(applied)

	stored, _ := s.store.FindReport(s.ctx, r.ID)
	s.Equal(models.StatusFinalConfirmed, stored.Status)
	s.Equal(s.now, *stored.ResolvedAt)
	s.Equal("[auto] finalized after dwell elapsed", stored.AdminNote)

	targets, err := s.store.ListFinalizedTargets(s.ctx)
	s.Require().NoError(err)
	s.Equal([]id.AccountID{s.target}, targets)
}

func (s *InMemoryStoreSuite) TestCancelActiveForTargetSkipsClosedReports() {
	active, _ := s.newReport("x")
	closed, _ := s.newReport("y")
	_, err := s.store.Execute(s.ctx, closed.ID,
		func(*models.Report) error { return nil },
		func(r *models.Report) { r.ApplyStatus(models.StatusRejected, "", s.now) })
	s.Require().NoError(err)

	n, err := s.store.CancelActiveForTarget(s.ctx, s.target, "[owner] alive", s.now)
	s.Require().NoError(err)
	s.Equal(1, n)

	a, _ := s.store.FindReport(s.ctx, active.ID)
	s.Equal(models.StatusCanceledByOwner, a.Status)
	c, _ := s.store.FindReport(s.ctx, closed.ID)
	s.Equal(models.StatusRejected, c.Status)

	counts, _ := s.store.CountByStatus(s.ctx)
	s.Equal(map[models.ReportStatus]int{
		models.StatusCanceledByOwner: 1,
		models.StatusRejected:        1,
	}, counts)
}

func (s *InMemoryStoreSuite) TestExecuteValidationLeavesReportUntouched() {
	r, _ := s.newReport("z")
	_, err := s.store.Execute(s.ctx, r.ID,
		func(r *models.Report) error { return r.CanSetStatus(models.StatusPending) },
		func(r *models.Report) {
			r.Status = models.StatusPending
			r.AdminNote = "mutated"
		})
	s.Error(err)

	stored, _ := s.store.FindReport(s.ctx, r.ID)
	s.Empty(stored.AdminNote)
}

func (s *InMemoryStoreSuite) TestLockReportChecksExistence() {
	r, _ := s.newReport("lock")
	s.NoError(s.store.LockReport(s.ctx, r.ID))
	s.ErrorIs(s.store.LockReport(s.ctx, id.ReportID(uuid.New())), sentinel.ErrNotFound)
}
