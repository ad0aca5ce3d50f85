package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"memento/internal/release/models"
	id "memento/pkg/domain"
	"memento/pkg/platform/sentinel"
)

// Justification for unit tests: the sweeps depend on ReleaseIfUnreleased being
// a one-shot transition and on the ledger rejecting a second entry.

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	now   time.Time
	owner id.AccountID
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2030, 5, 1, 8, 0, 0, 0, time.UTC)
	s.owner = id.AccountID(uuid.New())
}

func (s *InMemoryStoreSuite) add(policy models.Policy, releaseAt *time.Time) *models.Deliverable {
	d := &models.Deliverable{
		ID:             id.DeliverableID(uuid.New()),
		OwnerAccountID: s.owner,
		Title:          "letter",
		Policy:         policy,
		ReleaseAt:      releaseAt,
		CreatedAt:      s.now,
		UpdatedAt:      s.now,
	}
	s.Require().NoError(s.store.Create(s.ctx, d))
	return d
}

func (s *InMemoryStoreSuite) TestReleaseIsOneShot() {
	d := s.add(models.PolicyOnDeath, nil)

	ok, err := s.store.ReleaseIfUnreleased(s.ctx, d.ID, s.now)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.store.ReleaseIfUnreleased(s.ctx, d.ID, s.now.Add(time.Hour))
	s.Require().NoError(err)
	s.False(ok)

	got, err := s.store.FindByID(s.ctx, d.ID)
	s.Require().NoError(err)
	s.True(got.Released)
	s.Equal(s.now, *got.ReleasedAt)

	_, err = s.store.ReleaseIfUnreleased(s.ctx, id.DeliverableID(uuid.New()), s.now)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestReleasedIsImmutable() {
	d := s.add(models.PolicyOnDeath, nil)
	_, err := s.store.ReleaseIfUnreleased(s.ctx, d.ID, s.now)
	s.Require().NoError(err)

	d.Title = "changed"
	s.ErrorIs(s.store.UpdateIfUnreleased(s.ctx, d), sentinel.ErrInvalidState)
	s.ErrorIs(s.store.DeleteIfUnreleased(s.ctx, d.ID), sentinel.ErrInvalidState)
	s.ErrorIs(s.store.DeleteIfUnreleased(s.ctx, id.DeliverableID(uuid.New())), sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestSelections() {
	past := s.now.Add(-time.Minute)
	future := s.now.Add(time.Hour)
	onDeath := s.add(models.PolicyOnDeath, nil)
	due := s.add(models.PolicyOnDate, &past)
	s.add(models.PolicyOnDate, &future)
	s.add(models.PolicyImmediate, nil)

	s.Run("on death only for listed owners", func() {
		got, err := s.store.ListUnreleasedOnDeath(s.ctx, []id.AccountID{s.owner})
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal(onDeath.ID, got[0].ID)

		got, err = s.store.ListUnreleasedOnDeath(s.ctx, []id.AccountID{id.AccountID(uuid.New())})
		s.Require().NoError(err)
		s.Empty(got)
	})

	s.Run("on date only when due", func() {
		got, err := s.store.ListDueOnDate(s.ctx, s.now)
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal(due.ID, got[0].ID)
	})
}

func (s *InMemoryStoreSuite) TestLedger() {
	d := s.add(models.PolicyOnDeath, nil)
	entry := models.NewLedgerEntry(d, s.now)

	s.Require().NoError(s.store.AppendLedger(s.ctx, entry))
	s.ErrorIs(s.store.AppendLedger(s.ctx, models.NewLedgerEntry(d, s.now)), sentinel.ErrConflict)

	n, err := s.store.CountLedger(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)

	entries, err := s.store.ListLedger(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal([]models.LedgerEntry{entry}, entries)
}
