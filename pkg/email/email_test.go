package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameFromAddress(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"alice@memento.local", "Alice"},
		{"jane.doe+wills@example.com", "Jane Doe"},
		{"bob_van-dyke@example.com", "Bob Van Dyke"},
		{"@example.com", ""},
		{"+tag@example.com", ""},
		{"no-at-sign", "No At Sign"},
	}
	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			assert.Equal(t, tt.want, NameFromAddress(tt.address))
		})
	}
}
