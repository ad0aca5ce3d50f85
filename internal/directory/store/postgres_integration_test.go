//go:build integration

package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memento/internal/directory"
	dirstore "memento/internal/directory/store"
	id "memento/pkg/domain"
	"memento/pkg/platform/sentinel"
	"memento/pkg/testutil/containers"
)

// Overlapping escalation sweeps on separate connections race on the same
// account; only one of them may see its MarkDeceased applied.
func TestMarkDeceasedPostgres(t *testing.T) {
	pg := containers.GetManager().GetPostgres(t)
	ctx := context.Background()
	require.NoError(t, pg.Truncate(ctx))

	base := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	dir := dirstore.NewPostgres(pg.DB)
	accountID := id.AccountID(uuid.New())
	require.NoError(t, dir.SeedAccount(ctx, directory.Account{ID: accountID, Username: "racing", CreatedAt: base}))

	t.Run("concurrent marks apply exactly once", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			applied atomic.Int32
		)
		for i := 0; i < 6; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := dir.MarkDeceased(ctx, accountID, base.Add(time.Duration(i)*time.Minute))
				assert.NoError(t, err)
				if ok {
					applied.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), applied.Load())

		account, err := dir.FindByID(ctx, accountID)
		require.NoError(t, err)
		assert.NotNil(t, account.DeceasedOn)
	})

	t.Run("unknown account is not found", func(t *testing.T) {
		_, err := dir.MarkDeceased(ctx, id.AccountID(uuid.New()), base)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
