package testutil

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	id "memento/pkg/domain"
	"memento/pkg/requestcontext"
)

// WithAccount adds an authenticated account to the request context, the way
// the auth middleware would for a valid bearer token.
func WithAccount(req *http.Request, accountID id.AccountID) *http.Request {
	return req.WithContext(requestcontext.WithAccountID(req.Context(), accountID))
}

// At returns a context pinned to t, the simulated clock used by service tests.
func At(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

// DiscardLogger is a logger for tests that do not assert on log output.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
