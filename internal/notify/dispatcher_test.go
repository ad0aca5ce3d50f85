package notify_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memento/internal/notify"
	"memento/internal/notify/store"
	id "memento/pkg/domain"
	"memento/pkg/requestcontext"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func TestDispatcher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	at := time.Date(2030, 3, 3, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), at)
	accountID := id.AccountID(uuid.New())

	t.Run("successful send is logged", func(t *testing.T) {
		sender := &recordingSender{}
		log := store.NewInMemoryLog()
		d := notify.NewDispatcher(sender, log, notify.WithLogger(logger))

		err := d.Dispatch(ctx, notify.TypeOwnerAlert, accountID, notify.Message{To: "owner@example.com", Subject: "hi"})
		require.NoError(t, err)

		entries, err := log.ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, notify.OutcomeSuccess, entries[0].Outcome)
		assert.Equal(t, notify.TypeOwnerAlert, entries[0].Type)
		assert.Equal(t, "owner@example.com", entries[0].Recipient)
		assert.Equal(t, at, entries[0].SentAt)
	})

	t.Run("failed send is logged and returned", func(t *testing.T) {
		sender := &recordingSender{err: errors.New("relay refused")}
		log := store.NewInMemoryLog()
		d := notify.NewDispatcher(sender, log, notify.WithLogger(logger))

		err := d.Dispatch(ctx, notify.TypeExecutionGuide, accountID, notify.Message{To: "heir@example.com"})
		require.Error(t, err)

		entries, _ := log.ListRecent(ctx, 10)
		require.Len(t, entries, 1)
		assert.Equal(t, notify.OutcomeFailed, entries[0].Outcome)
		assert.Equal(t, "relay refused", entries[0].ErrorDetail)
	})
}

func TestInMemoryLog_ListRecentNewestFirst(t *testing.T) {
	log := store.NewInMemoryLog()
	ctx := context.Background()
	for _, r := range []string{"a", "b", "c"} {
		require.NoError(t, log.Append(ctx, notify.LogEntry{Recipient: r}))
	}
	entries, err := log.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].Recipient)
	assert.Equal(t, "b", entries[1].Recipient)

	n, err := log.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
