package willexec_test

//go:generate mockgen -source=willexec.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"memento/internal/content"
	"memento/internal/directory"
	dirstore "memento/internal/directory/store"
	"memento/internal/notify"
	"memento/internal/release/willexec"
	"memento/internal/release/willexec/mocks"
	id "memento/pkg/domain"
	"memento/pkg/platform/audit"
	"memento/pkg/testutil"
)

type brokenGenerator struct{}

func (brokenGenerator) Generate(context.Context, content.Prompt) (string, error) {
	return "", errors.New("model overloaded")
}

type sent struct {
	mu   sync.Mutex
	msgs map[notify.Type][]notify.Message
}

func (s *sent) record(_ context.Context, typ notify.Type, _ id.AccountID, msg notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs[typ] = append(s.msgs[typ], msg)
	if strings.HasPrefix(msg.To, "bounce") {
		return errors.New("mailbox unavailable")
	}
	return nil
}

func seededEstate(t *testing.T) (*dirstore.InMemoryDirectory, *dirstore.DemoEstate) {
	t.Helper()
	dir := dirstore.NewInMemoryDirectory()
	estate, err := dirstore.SeedDemo(context.Background(), dir, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return dir, estate
}

func TestRunForAccount(t *testing.T) {
	t.Run("one guide per actionable directive plus the will location", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		notifier := mocks.NewMockNotifier(ctrl)
		rec := &sent{msgs: map[notify.Type][]notify.Message{}}
		notifier.EXPECT().Dispatch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(rec.record).Times(4)

		dir, estate := seededEstate(t)
		exec, err := willexec.New(dir, dir, notifier,
			willexec.WithLogger(testutil.DiscardLogger()),
			willexec.WithGenerator(brokenGenerator{}),
		)
		require.NoError(t, err)

		res, err := exec.RunForAccount(context.Background(), estate.Account.ID)
		require.NoError(t, err)
		assert.Equal(t, willexec.Result{Sent: 3, Skipped: 1, WillLocationSent: true}, res)

		guides := rec.msgs[notify.TypeExecutionGuide]
		require.Len(t, guides, 3)
		for _, g := range guides {
			assert.Contains(t, g.Body, "Demo Owner")
			assert.Contains(t, g.Body, "not a will")
		}
		require.Len(t, rec.msgs[notify.TypeWillLocation], 1)
		will := rec.msgs[notify.TypeWillLocation][0]
		assert.Equal(t, "alice@memento.local", will.To)
		assert.Contains(t, will.Body, "Top drawer of the study desk")
	})

	t.Run("a failed send only affects its own directive", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		dirs := mocks.NewMockDirectiveDirectory(ctrl)
		accounts := mocks.NewMockAccountDirectory(ctrl)
		notifier := mocks.NewMockNotifier(ctrl)
		rec := &sent{msgs: map[notify.Type][]notify.Message{}}
		accountID := id.AccountID(uuid.New())

		dirs.EXPECT().ListDirectives(gomock.Any(), accountID).Return([]directory.AssetDirective{
			{ServiceName: "Bank", Category: "finance", Action: directory.ActionOther, BeneficiaryEmail: "bounce@example.com"},
			{ServiceName: "Netflix", Category: "subscription", Action: directory.ActionDelete, BeneficiaryEmail: "ok@example.com"},
			{ServiceName: "Blog", Action: directory.ActionKeep},
		}, nil)
		dirs.EXPECT().FindWillDocument(gomock.Any(), accountID).Return(nil, errors.New("not registered"))
		accounts.EXPECT().FindByID(gomock.Any(), accountID).Return(nil, errors.New("directory down"))
		notifier.EXPECT().Dispatch(gomock.Any(), notify.TypeExecutionGuide, accountID, gomock.Any()).DoAndReturn(rec.record).Times(2)

		exec, err := willexec.New(dirs, accounts, notifier, willexec.WithLogger(testutil.DiscardLogger()))
		require.NoError(t, err)

		res, err := exec.RunForAccount(context.Background(), accountID)
		require.NoError(t, err)
		assert.Equal(t, willexec.Result{Sent: 1, Failed: 1, Skipped: 1}, res)
	})

	t.Run("directive lookup failure is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		dirs := mocks.NewMockDirectiveDirectory(ctrl)
		dirs.EXPECT().ListDirectives(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

		exec, err := willexec.New(dirs, mocks.NewMockAccountDirectory(ctrl), mocks.NewMockNotifier(ctrl))
		require.NoError(t, err)
		_, err = exec.RunForAccount(context.Background(), id.AccountID(uuid.New()))
		assert.Error(t, err)
	})
}

func TestOnFinalized_EmitsAudit(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)
	publisher := mocks.NewMockAuditPublisher(ctrl)
	notifier.EXPECT().Dispatch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
		assert.Equal(t, string(audit.EventWillExecuted), e.Action)
		assert.Equal(t, "sent=3 failed=0 skipped=1", e.Decision)
		return nil
	})

	dir, estate := seededEstate(t)
	exec, err := willexec.New(dir, dir, notifier,
		willexec.WithLogger(testutil.DiscardLogger()),
		willexec.WithAuditPublisher(publisher),
		willexec.WithConcurrency(1),
	)
	require.NoError(t, err)
	require.NoError(t, exec.OnFinalized(testutil.At(time.Now()), estate.Account.ID))
}

func TestCategoryGuides(t *testing.T) {
	render := func(category, service string) string {
		return willexec.GuideFallback(content.Prompt{Facts: map[string]string{
			"service": service, "category": category, "action": "DELETE", "deceased": "Ada",
		}})
	}
	assert.Contains(t, render("subscription", "Netflix"), "Cancel Membership")
	assert.Contains(t, render("cloud", "Google Drive"), "takeout.google.com")
	assert.Contains(t, render("SNS", "Instagram"), "memorial account")
	assert.Contains(t, render("finance", "Bank"), "no legal force")
	assert.Contains(t, render("", "Forum"), "help pages")
	assert.Contains(t, render("", "Forum"), "delete the account")
}
