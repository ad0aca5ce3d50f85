//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"memento/internal/directory"
	dirstore "memento/internal/directory/store"
	"memento/internal/release/models"
	"memento/internal/release/store"
	id "memento/pkg/domain"
	"memento/pkg/platform/sentinel"
	"memento/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	ctx      context.Context
	now      time.Time
	owner    id.AccountID
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.Truncate(s.ctx))
	s.now = time.Date(2030, 5, 1, 8, 0, 0, 0, time.UTC)
	s.owner = id.AccountID(uuid.New())
	dir := dirstore.NewPostgres(s.postgres.DB)
	s.Require().NoError(dir.SeedAccount(s.ctx, directory.Account{
		ID: s.owner, Username: "owner-" + s.owner.String()[:8], CreatedAt: s.now,
	}))
}

func (s *PostgresStoreSuite) add(policy models.Policy, releaseAt *time.Time) *models.Deliverable {
	d := &models.Deliverable{
		ID:               id.DeliverableID(uuid.New()),
		OwnerAccountID:   s.owner,
		Title:            "letter",
		Policy:           policy,
		ReleaseAt:        releaseAt,
		BeneficiaryEmail: "bo@example.com",
		CreatedAt:        s.now,
		UpdatedAt:        s.now,
	}
	s.Require().NoError(s.store.Create(s.ctx, d))
	return d
}

func (s *PostgresStoreSuite) TestReleaseAndLedger() {
	d := s.add(models.PolicyOnDeath, nil)

	pending, err := s.store.ListUnreleasedOnDeath(s.ctx, []id.AccountID{s.owner, id.AccountID(uuid.New())})
	s.Require().NoError(err)
	s.Require().Len(pending, 1)

	ok, err := s.store.ReleaseIfUnreleased(s.ctx, d.ID, s.now)
	s.Require().NoError(err)
	s.True(ok)
	ok, err = s.store.ReleaseIfUnreleased(s.ctx, d.ID, s.now)
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.store.AppendLedger(s.ctx, models.NewLedgerEntry(d, s.now)))
	s.ErrorIs(s.store.AppendLedger(s.ctx, models.NewLedgerEntry(d, s.now)), sentinel.ErrConflict)

	entries, err := s.store.ListLedger(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.True(entries[0].NotificationDispatched)
	s.Equal(models.PolicyOnDeath, entries[0].Policy)

	pending, err = s.store.ListUnreleasedOnDeath(s.ctx, []id.AccountID{s.owner})
	s.Require().NoError(err)
	s.Empty(pending)

	released, err := s.store.CountReleased(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, released)
}

func (s *PostgresStoreSuite) TestConditionalWritesExplainMisses() {
	d := s.add(models.PolicyOnDeath, nil)
	_, err := s.store.ReleaseIfUnreleased(s.ctx, d.ID, s.now)
	s.Require().NoError(err)

	d.Title = "changed"
	s.ErrorIs(s.store.UpdateIfUnreleased(s.ctx, d), sentinel.ErrInvalidState)
	s.ErrorIs(s.store.DeleteIfUnreleased(s.ctx, d.ID), sentinel.ErrInvalidState)
	s.ErrorIs(s.store.DeleteIfUnreleased(s.ctx, id.DeliverableID(uuid.New())), sentinel.ErrNotFound)

	fresh := s.add(models.PolicyOnDeath, nil)
	fresh.Title = "renamed"
	s.Require().NoError(s.store.UpdateIfUnreleased(s.ctx, fresh))
	got, err := s.store.FindByID(s.ctx, fresh.ID)
	s.Require().NoError(err)
	s.Equal("renamed", got.Title)
}

func (s *PostgresStoreSuite) TestListDueOnDate() {
	past := s.now.Add(-time.Minute)
	future := s.now.Add(time.Hour)
	due := s.add(models.PolicyOnDate, &past)
	s.add(models.PolicyOnDate, &future)

	got, err := s.store.ListDueOnDate(s.ctx, s.now)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(due.ID, got[0].ID)
	s.True(got[0].ReleaseAt.Equal(past))
}
