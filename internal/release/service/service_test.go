package service_test

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"memento/internal/directory"
	"memento/internal/notify"
	notifystore "memento/internal/notify/store"
	"memento/internal/release/models"
	"memento/internal/release/service"
	"memento/internal/release/service/mocks"
	"memento/internal/release/store"
	id "memento/pkg/domain"
	dErrors "memento/pkg/domain-errors"
	"memento/pkg/platform/tx"
	"memento/pkg/testutil"
)

// =============================================================================
// Release Service Test Suite
// =============================================================================
// Justification for unit tests: a deliverable must be released exactly once,
// with exactly one ledger entry, and released deliverables must stay locked.

type failingSender struct{ calls int }

func (f *failingSender) Send(context.Context, notify.Message) error {
	f.calls++
	return errors.New("smtp: connection refused")
}

type ReleaseSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	finalized *mocks.MockFinalizedTargets
	accounts  *mocks.MockAccountDirectory
	store     *store.InMemoryStore
	sender    *failingSender
	log       *notifystore.InMemoryLog
	service   *service.Service
	owner     id.AccountID
	now       time.Time
}

func TestReleaseSuite(t *testing.T) {
	suite.Run(t, new(ReleaseSuite))
}

func (s *ReleaseSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.finalized = mocks.NewMockFinalizedTargets(s.ctrl)
	s.accounts = mocks.NewMockAccountDirectory(s.ctrl)
	s.store = store.NewInMemory()
	s.sender = &failingSender{}
	s.log = notifystore.NewInMemoryLog()
	s.owner = id.AccountID(uuid.New())
	s.now = time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC)

	s.accounts.EXPECT().FindByID(gomock.Any(), s.owner).
		Return(&directory.Account{ID: s.owner, Username: "margaret", DisplayName: "Margaret"}, nil).AnyTimes()

	dispatcher := notify.NewDispatcher(s.sender, s.log, notify.WithLogger(testutil.DiscardLogger()))
	var err error
	s.service, err = service.New(s.store, s.finalized, s.accounts, tx.NewLocalRunner(),
		service.WithLogger(testutil.DiscardLogger()),
		service.WithNotifier(dispatcher),
	)
	s.Require().NoError(err)
}

func (s *ReleaseSuite) ctx() context.Context {
	return testutil.At(s.now)
}

func (s *ReleaseSuite) create(policy string, releaseAt *time.Time, email string) *models.Deliverable {
	d, err := s.service.Create(s.ctx(), s.owner, &models.CreateDeliverableRequest{
		Title:            "For Bob",
		Message:          "The spare key is under the blue pot.",
		ReleasePolicy:    policy,
		ReleaseAt:        releaseAt,
		RecipientName:    "Bob",
		BeneficiaryEmail: email,
	})
	s.Require().NoError(err)
	return d
}

func (s *ReleaseSuite) ledgerSize() int {
	n, err := s.store.CountLedger(context.Background())
	s.Require().NoError(err)
	return n
}

func (s *ReleaseSuite) logSize() int {
	n, err := s.log.Count(context.Background())
	s.Require().NoError(err)
	return n
}

func (s *ReleaseSuite) TestNew() {
	_, err := service.New(nil, s.finalized, s.accounts, tx.NewLocalRunner())
	s.Error(err)
	_, err = service.New(s.store, nil, s.accounts, tx.NewLocalRunner())
	s.Error(err)
	_, err = service.New(s.store, s.finalized, s.accounts, nil)
	s.Error(err)
}

func (s *ReleaseSuite) TestCreate() {
	s.Run("immediate releases inline and logs the notice", func() {
		d := s.create("IMMEDIATE", nil, "bob@example.com")
		s.True(d.Released)
		s.Equal(s.now, *d.ReleasedAt)
		s.Equal(1, s.ledgerSize())
		s.Equal(1, s.logSize())

		entries, err := s.log.ListRecent(context.Background(), 1)
		s.Require().NoError(err)
		s.Equal(notify.TypeDeliverableReleased, entries[0].Type)
		s.Equal(notify.OutcomeFailed, entries[0].Outcome)
	})

	s.Run("on death waits", func() {
		before := s.ledgerSize()
		d := s.create("ON_DEATH", nil, "bob@example.com")
		s.False(d.Released)
		s.Equal(before, s.ledgerSize())
	})

	s.Run("unauthenticated", func() {
		_, err := s.service.Create(s.ctx(), id.AccountID{}, &models.CreateDeliverableRequest{Title: "x", ReleasePolicy: "ON_DEATH"})
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *ReleaseSuite) TestUpdate() {
	s.Run("released deliverable is locked", func() {
		d := s.create("IMMEDIATE", nil, "")
		title := "new title"
		_, err := s.service.Update(s.ctx(), s.owner, d.ID, &models.UpdateDeliverableRequest{Title: &title})
		s.True(dErrors.HasCode(err, dErrors.CodeDeliverableReleased))

		err = s.service.Delete(s.ctx(), s.owner, d.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeDeliverableReleased))
	})

	s.Run("switching to immediate releases", func() {
		d := s.create("ON_DEATH", nil, "")
		before := s.ledgerSize()
		policy := "IMMEDIATE"
		updated, err := s.service.Update(s.ctx(), s.owner, d.ID, &models.UpdateDeliverableRequest{ReleasePolicy: &policy})
		s.Require().NoError(err)
		s.True(updated.Released)
		s.Equal(before+1, s.ledgerSize())
	})

	s.Run("other owners see not found", func() {
		d := s.create("ON_DEATH", nil, "")
		title := "hijack"
		_, err := s.service.Update(s.ctx(), id.AccountID(uuid.New()), d.ID, &models.UpdateDeliverableRequest{Title: &title})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

		_, err = s.service.Get(s.ctx(), id.AccountID(uuid.New()), d.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("delete unreleased", func() {
		d := s.create("ON_DEATH", nil, "")
		s.Require().NoError(s.service.Delete(s.ctx(), s.owner, d.ID))
		_, err := s.service.Get(s.ctx(), s.owner, d.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ReleaseSuite) TestSweepOnDeath() {
	s.Run("releases once with one ledger entry and one notice", func() {
		d := s.create("ON_DEATH", nil, "bob@example.com")
		s.finalized.EXPECT().ListFinalizedTargets(gomock.Any()).Return([]id.AccountID{s.owner}, nil).Times(2)

		res, err := s.service.SweepOnDeath(s.ctx())
		s.Require().NoError(err)
		s.Equal(models.ReleaseResult{Examined: 1, Released: 1}, res)

		got, err := s.service.Get(s.ctx(), s.owner, d.ID)
		s.Require().NoError(err)
		s.True(got.Released)
		s.Equal(s.now, *got.ReleasedAt)
		s.Equal(1, s.ledgerSize())
		s.Equal(1, s.logSize())

		res, err = s.service.SweepOnDeath(s.ctx())
		s.Require().NoError(err)
		s.Zero(res.Released)
		s.Equal(1, s.ledgerSize())
		s.Equal(1, s.sender.calls)
	})

	s.Run("no finalized accounts", func() {
		s.finalized.EXPECT().ListFinalizedTargets(gomock.Any()).Return(nil, nil)
		res, err := s.service.SweepOnDeath(s.ctx())
		s.Require().NoError(err)
		s.Zero(res.Examined)
	})

	s.Run("select failure abandons the run", func() {
		s.finalized.EXPECT().ListFinalizedTargets(gomock.Any()).Return(nil, errors.New("timeout"))
		_, err := s.service.SweepOnDeath(s.ctx())
		s.Error(err)
	})
}

func (s *ReleaseSuite) TestSweepOnDate() {
	past := s.now.Add(-time.Hour)
	future := s.now.Add(24 * time.Hour)
	due := s.create("ON_DATE", &past, "")
	later := s.create("ON_DATE", &future, "")

	res, err := s.service.SweepOnDate(s.ctx())
	s.Require().NoError(err)
	s.Equal(1, res.Released)

	got, err := s.service.Get(s.ctx(), s.owner, due.ID)
	s.Require().NoError(err)
	s.True(got.Released)
	got, err = s.service.Get(s.ctx(), s.owner, later.ID)
	s.Require().NoError(err)
	s.False(got.Released)
	s.Zero(s.logSize(), "no beneficiary means no notice")
}

// =============================================================================
// Store failure paths (mocked store)
// =============================================================================

func TestSweepIsolatesFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	deliverables := mocks.NewMockDeliverableStore(ctrl)
	finalized := mocks.NewMockFinalizedTargets(ctrl)
	accounts := mocks.NewMockAccountDirectory(ctrl)
	now := time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC)

	svc, err := service.New(deliverables, finalized, accounts, tx.NewLocalRunner(),
		service.WithLogger(testutil.DiscardLogger()))
	if err != nil {
		t.Fatal(err)
	}

	owner := id.AccountID(uuid.New())
	bad := &models.Deliverable{ID: id.DeliverableID(uuid.New()), OwnerAccountID: owner, Policy: models.PolicyOnDate}
	good := &models.Deliverable{ID: id.DeliverableID(uuid.New()), OwnerAccountID: owner, Policy: models.PolicyOnDate}

	deliverables.EXPECT().ListDueOnDate(gomock.Any(), now).Return([]*models.Deliverable{bad, good}, nil)
	deliverables.EXPECT().ReleaseIfUnreleased(gomock.Any(), bad.ID, now).Return(false, errors.New("deadlock"))
	deliverables.EXPECT().ReleaseIfUnreleased(gomock.Any(), good.ID, now).Return(true, nil)
	deliverables.EXPECT().AppendLedger(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e models.LedgerEntry) error {
		if e.DeliverableID != good.ID || e.NotificationDispatched {
			t.Errorf("unexpected ledger entry %+v", e)
		}
		return nil
	})

	res, err := svc.SweepOnDate(testutil.At(now))
	if err != nil {
		t.Fatal(err)
	}
	if res != (models.ReleaseResult{Examined: 2, Released: 1, Failed: 1}) {
		t.Fatalf("unexpected result %+v", res)
	}
}
