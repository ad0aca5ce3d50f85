package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"memento/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (v stubValidator) ValidateToken(string) (*JWTClaims, error) {
	return v.claims, v.err
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	accountID := uuid.New()

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.AccountID(r.Context()).String()
		w.WriteHeader(http.StatusNoContent)
	})

	cases := []struct {
		name       string
		header     string
		validator  stubValidator
		wantStatus int
	}{
		{"missing header", "", stubValidator{}, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", stubValidator{}, http.StatusUnauthorized},
		{"invalid token", "Bearer bad", stubValidator{err: errors.New("bad sig")}, http.StatusUnauthorized},
		{"malformed subject", "Bearer ok", stubValidator{claims: &JWTClaims{AccountID: "nope"}}, http.StatusUnauthorized},
		{"valid token", "Bearer ok", stubValidator{claims: &JWTClaims{AccountID: accountID.String()}}, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/me/death-reports", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			RequireAuth(tc.validator, logger)(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusNoContent {
				assert.Equal(t, accountID.String(), seen)
			} else {
				assert.Empty(t, seen)
			}
		})
	}
}
