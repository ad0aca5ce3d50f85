package store

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
	id "memento/pkg/domain"
	"memento/pkg/platform/sentinel"
)

func TestInMemoryDirectory(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	accountID := id.AccountID(uuid.New())

	newDir := func() *InMemoryDirectory {
		d := NewInMemoryDirectory()
		d.PutAccount(directory.Account{ID: accountID, Username: "Hana"})
		return d
	}

	t.Run("username lookup is case insensitive", func(t *testing.T) {
		a, err := newDir().FindByUsername(ctx, "hana")
		require.NoError(t, err)
		assert.Equal(t, accountID, a.ID)
	})

	t.Run("unknown account is not found", func(t *testing.T) {
		_, err := newDir().FindByID(ctx, id.AccountID(uuid.New()))
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("contacts come back in registration order", func(t *testing.T) {
		d := newDir()
		d.AddContact(directory.TrustedContact{ID: id.ContactID(uuid.New()), AccountID: accountID, Name: "third", CreatedAt: base.Add(2 * time.Hour)})
		d.AddContact(directory.TrustedContact{ID: id.ContactID(uuid.New()), AccountID: accountID, Name: "first", CreatedAt: base})
		d.AddContact(directory.TrustedContact{ID: id.ContactID(uuid.New()), AccountID: accountID, Name: "second", CreatedAt: base.Add(time.Hour)})

		contacts, err := d.ListByAccount(ctx, accountID)
		require.NoError(t, err)
		require.Len(t, contacts, 3)
		assert.Equal(t, []string{"first", "second", "third"},
			[]string{contacts[0].Name, contacts[1].Name, contacts[2].Name})
	})

	t.Run("deceased date is set once", func(t *testing.T) {
		d := newDir()
		applied, err := d.MarkDeceased(ctx, accountID, base)
		require.NoError(t, err)
		assert.True(t, applied)
		applied, err = d.MarkDeceased(ctx, accountID, base.Add(24*time.Hour))
		require.NoError(t, err)
		assert.False(t, applied, "second mark keeps the first date")

		a, err := d.FindByID(ctx, accountID)
		require.NoError(t, err)
		require.NotNil(t, a.DeceasedOn)
		assert.Equal(t, base, *a.DeceasedOn)
	})

	t.Run("concurrent marks apply exactly once", func(t *testing.T) {
		d := newDir()
		var (
			wg      sync.WaitGroup
			applied atomic.Int32
		)
		for i := 0; i < 8; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := d.MarkDeceased(ctx, accountID, base.Add(time.Duration(i)*time.Minute))
				assert.NoError(t, err)
				if ok {
					applied.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), applied.Load())
	})

	t.Run("marking an unknown account is not found", func(t *testing.T) {
		_, err := newDir().MarkDeceased(ctx, id.AccountID(uuid.New()), base)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("missing will document is not found", func(t *testing.T) {
		_, err := newDir().FindWillDocument(ctx, accountID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}

func TestAssetDirective_Actionable(t *testing.T) {
	assert.True(t, directory.AssetDirective{Action: directory.ActionDelete, BeneficiaryEmail: "a@b.c"}.Actionable())
	assert.False(t, directory.AssetDirective{Action: directory.ActionDelete}.Actionable())
	assert.False(t, directory.AssetDirective{BeneficiaryEmail: "a@b.c"}.Actionable())
}
