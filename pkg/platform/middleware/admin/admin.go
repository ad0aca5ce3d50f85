// Package admin guards operator endpoints with a shared secret.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "memento/pkg/domain-errors"
	"memento/pkg/platform/httputil"
	request "memento/pkg/platform/middleware/request"
	"memento/pkg/requestcontext"
)

// TokenHeader carries the operator token.
const TokenHeader = "X-Admin-Token"

// RequireAdminToken rejects requests whose TokenHeader does not equal
// expectedToken. An empty expectedToken locks the admin surface entirely.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	expected := []byte(expectedToken)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sent := []byte(r.Header.Get(TokenHeader))
			if len(expected) > 0 && subtle.ConstantTimeCompare(sent, expected) == 1 {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			logger.WarnContext(ctx, "admin request rejected",
				"path", r.URL.Path,
				"token_present", len(sent) > 0,
				"client_ip", requestcontext.ClientIP(ctx),
				"request_id", request.GetRequestID(ctx),
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
		})
	}
}
