package compliance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "memento/pkg/domain"
	audit "memento/pkg/platform/audit"
	"memento/pkg/platform/audit/store/memory"
	"memento/pkg/requestcontext"
)

type failingStore struct{}

func (failingStore) Append(context.Context, audit.Event) error { return errors.New("disk full") }

func TestEmit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("derives category and timestamp", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		p := New(store, WithLogger(logger))
		accountID := id.AccountID(uuid.New())

		err := p.Emit(context.Background(), audit.Event{
			AccountID: accountID,
			Action:    string(audit.EventReportFinalized),
		})
		require.NoError(t, err)

		events, err := store.ListByAccount(context.Background(), accountID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.CategoryCompliance, events[0].Category)
		assert.WithinDuration(t, time.Now(), events[0].Timestamp, time.Second)
	})

	t.Run("fills request fields from context", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		p := New(store)
		pinned := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		ctx := requestcontext.WithTime(context.Background(), pinned)
		ctx = requestcontext.WithRequestID(ctx, "req-1")
		ctx = requestcontext.WithDevice(ctx, "Firefox on Linux")

		require.NoError(t, p.Emit(ctx, audit.Event{Subject: "203.0.113.0/24", Action: string(audit.EventRateLimitExceeded)}))

		events, err := store.ListRecent(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.CategorySecurity, events[0].Category)
		assert.Equal(t, pinned, events[0].Timestamp)
		assert.Equal(t, "req-1", events[0].RequestID)
		assert.Equal(t, "Firefox on Linux", events[0].Device)
	})

	t.Run("missing action is rejected", func(t *testing.T) {
		p := New(memory.NewInMemoryStore())
		assert.Error(t, p.Emit(context.Background(), audit.Event{}))
	})

	t.Run("store failure fails closed", func(t *testing.T) {
		p := New(failingStore{}, WithLogger(logger))
		err := p.Emit(context.Background(), audit.Event{Action: string(audit.EventReportsCanceled)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}
