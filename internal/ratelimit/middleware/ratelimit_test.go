package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memento/internal/ratelimit/middleware"
	"memento/internal/ratelimit/models"
	"memento/internal/ratelimit/store/bucket"
	"memento/pkg/platform/audit"
	"memento/pkg/testutil"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []audit.Event
}

func (p *recordingPublisher) Emit(_ context.Context, e audit.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration) (*models.RateLimitResult, error) {
	return nil, errors.New("redis unavailable")
}

var reportsRule = models.Rule{Name: "death_reports", Limit: 2, Window: time.Hour}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
}

func post(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/death-reports", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLimit(t *testing.T) {
	t.Run("rejects once the window is full", func(t *testing.T) {
		pub := &recordingPublisher{}
		mw := middleware.New(bucket.NewInMemoryBucketStore(), testutil.DiscardLogger(), middleware.WithAuditPublisher(pub))
		h := mw.Limit(reportsRule)(okHandler())

		first := post(h, "203.0.113.7:5555")
		require.Equal(t, http.StatusCreated, first.Code)
		assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

		require.Equal(t, http.StatusCreated, post(h, "203.0.113.7:5556").Code)

		rejected := post(h, "203.0.113.7:5557")
		assert.Equal(t, http.StatusTooManyRequests, rejected.Code)
		assert.Contains(t, rejected.Body.String(), "rate_limited")
		assert.NotEmpty(t, rejected.Header().Get("Retry-After"))

		require.Len(t, pub.events, 1)
		assert.Equal(t, string(audit.EventRateLimitExceeded), pub.events[0].Action)
		assert.Equal(t, "203.0.113.0/24", pub.events[0].Subject)
		assert.Equal(t, "death_reports", pub.events[0].Reason)
	})

	t.Run("limits each client separately", func(t *testing.T) {
		mw := middleware.New(bucket.NewInMemoryBucketStore(), testutil.DiscardLogger())
		h := mw.Limit(reportsRule)(okHandler())

		post(h, "198.51.100.1:1000")
		post(h, "198.51.100.1:1000")
		assert.Equal(t, http.StatusTooManyRequests, post(h, "198.51.100.1:1000").Code)
		assert.Equal(t, http.StatusCreated, post(h, "198.51.100.2:1000").Code)
	})

	t.Run("store failure lets the request through", func(t *testing.T) {
		mw := middleware.New(failingStore{}, testutil.DiscardLogger())
		h := mw.Limit(reportsRule)(okHandler())

		assert.Equal(t, http.StatusCreated, post(h, "203.0.113.7:5555").Code)
	})

	t.Run("disabled skips the store", func(t *testing.T) {
		mw := middleware.New(failingStore{}, testutil.DiscardLogger(), middleware.WithDisabled(true))
		h := mw.Limit(models.Rule{Name: "verify", Limit: 0, Window: time.Minute})(okHandler())

		rec := post(h, "203.0.113.7:5555")
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	})
}
