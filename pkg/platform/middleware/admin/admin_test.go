package admin

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireAdminToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	cases := []struct {
		name     string
		expected string
		sent     string
		want     int
	}{
		{"matching token", "s3cret", "s3cret", http.StatusOK},
		{"missing token", "s3cret", "", http.StatusUnauthorized},
		{"wrong token", "s3cret", "guess", http.StatusUnauthorized},
		{"unconfigured token never matches", "", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
			if tc.sent != "" {
				req.Header.Set(TokenHeader, tc.sent)
			}
			rec := httptest.NewRecorder()
			RequireAdminToken(tc.expected, logger)(ok).ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"unauthorized","error_description":"admin token required"}`, rec.Body.String())
			}
		})
	}
}
