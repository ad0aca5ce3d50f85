package content_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memento/internal/content"
	"memento/internal/platform/config"
	"memento/pkg/platform/circuit"
)

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, content.Prompt) (string, error) {
	return "", errors.New("upstream unavailable")
}

func staticFallback(p content.Prompt) string { return "fallback:" + p.Purpose }

func TestWithFallback(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("nil generator uses fallback", func(t *testing.T) {
		g := content.WithFallback(nil, staticFallback, logger)
		text, err := g.Generate(ctx, content.Prompt{Purpose: "guide"})
		require.NoError(t, err)
		assert.Equal(t, "fallback:guide", text)
	})

	t.Run("generator error never propagates", func(t *testing.T) {
		g := content.WithFallback(failingGenerator{}, staticFallback, logger)
		text, err := g.Generate(ctx, content.Prompt{Purpose: "guide"})
		require.NoError(t, err)
		assert.Equal(t, "fallback:guide", text)
	})
}

func TestHTTPGenerator(t *testing.T) {
	t.Run("returns text from endpoint", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "execution_guide", body["purpose"])
			_, _ = w.Write([]byte(`{"text":"generated"}`))
		}))
		defer srv.Close()

		g := content.NewHTTPGenerator(config.ContentConfig{Endpoint: srv.URL, APIKey: "secret", Timeout: time.Second})
		text, err := g.Generate(context.Background(), content.Prompt{Purpose: "execution_guide"})
		require.NoError(t, err)
		assert.Equal(t, "generated", text)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		g := content.NewHTTPGenerator(config.ContentConfig{Endpoint: srv.URL})
		_, err := g.Generate(context.Background(), content.Prompt{})
		assert.Error(t, err)
	})

	t.Run("no endpoint means no generator", func(t *testing.T) {
		assert.Nil(t, content.NewHTTPGenerator(config.ContentConfig{}))
	})
}

type countingGenerator struct {
	calls int
	err   error
}

func (g *countingGenerator) Generate(context.Context, content.Prompt) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return "generated", nil
}

func TestWithBreaker(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("stops calling a failing generator", func(t *testing.T) {
		next := &countingGenerator{err: errors.New("boom")}
		g := content.WithBreaker(next, circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour)), logger)

		for iter := 0; iter < 5; iter++ {
			_, err := g.Generate(ctx, content.Prompt{})
			assert.Error(t, err)
		}
		assert.Equal(t, 2, next.calls)

		_, err := g.Generate(ctx, content.Prompt{})
		assert.ErrorIs(t, err, content.ErrCircuitOpen)
	})

	t.Run("healthy generator passes through", func(t *testing.T) {
		next := &countingGenerator{}
		g := content.WithFallback(content.WithBreaker(next, circuit.New("test"), logger), staticFallback, logger)

		text, err := g.Generate(ctx, content.Prompt{Purpose: "guide"})
		require.NoError(t, err)
		assert.Equal(t, "generated", text)
	})
}
