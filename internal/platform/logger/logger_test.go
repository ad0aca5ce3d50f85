package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("json handler tags the service", func(t *testing.T) {
		var buf bytes.Buffer
		NewWithWriter(&buf, "json", "info").Info("sweep finished", "finalized", 2)

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "memento", line["service"])
		assert.Equal(t, float64(2), line["finalized"])
	})

	t.Run("level filters debug", func(t *testing.T) {
		var buf bytes.Buffer
		NewWithWriter(&buf, "text", "warn").Debug("noise")
		assert.Empty(t, buf.String())
	})
}
