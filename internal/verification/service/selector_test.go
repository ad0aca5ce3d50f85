package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"memento/internal/directory"
)

func TestContactSelectors(t *testing.T) {
	contacts := []directory.TrustedContact{
		{Name: "A"},
		{Name: "B", Email: "b@example.com"},
		{Name: "C", Email: "c@example.com"},
	}

	t.Run("first registered keeps registration order", func(t *testing.T) {
		got := FirstRegistered(2)(contacts)
		assert.Equal(t, []string{"A", "B"}, names(got))
	})

	t.Run("first registered with fewer contacts returns all", func(t *testing.T) {
		assert.Len(t, FirstRegistered(5)(contacts), 3)
	})

	t.Run("email first prefers reachable contacts", func(t *testing.T) {
		got := WithEmailFirst(2)(contacts)
		assert.Equal(t, []string{"B", "C"}, names(got))

		got = WithEmailFirst(3)(contacts)
		assert.Equal(t, []string{"B", "C", "A"}, names(got))
	})
}

func TestTokenHashing(t *testing.T) {
	token, hash, err := newToken()
	assert.NoError(t, err)
	assert.Len(t, token, 43)
	assert.Len(t, hash, 32)
	assert.Equal(t, hash, hashToken(token))
}

func names(cs []directory.TrustedContact) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}
