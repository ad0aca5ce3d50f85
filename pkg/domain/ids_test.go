package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "memento/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseAccountID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseAccountID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseAccountID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseAccountID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, AccountID(validUUID), id)
	})
}

// TestParseID_TrustBoundary checks inputs that arrive from URLs and JSON bodies.
func TestParseID_TrustBoundary(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE death_reports;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Nil UUID", uuid.Nil.String(), true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReportID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	validUUID := uuid.New().String()

	parsers := map[string]func(string) error{
		"account":     func(s string) error { _, err := ParseAccountID(s); return err },
		"report":      func(s string) error { _, err := ParseReportID(s); return err },
		"contact":     func(s string) error { _, err := ParseContactID(s); return err },
		"deliverable": func(s string) error { _, err := ParseDeliverableID(s); return err },
		"asset":       func(s string) error { _, err := ParseAssetID(s); return err },
	}

	for name, parse := range parsers {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, parse(validUUID))
			for _, input := range []string{"", "invalid", uuid.Nil.String()} {
				assert.Error(t, parse(input), "input %q", input)
			}
		})
	}
}

func TestIsNil(t *testing.T) {
	assert.True(t, AccountID{}.IsNil())
	assert.False(t, AccountID(uuid.New()).IsNil())
	assert.True(t, DeliverableID(uuid.Nil).IsNil())
}
