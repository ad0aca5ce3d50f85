package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "memento/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "internal_error" {
			t.Fatalf("expected error code internal_error, got %q", body["error"])
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for internal errors")
		}
	})

	t.Run("bad request includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid input"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "bad_request" {
			t.Fatalf("expected error code bad_request, got %q", body["error"])
		}
		if body["error_description"] != "invalid input" {
			t.Fatalf("expected error_description to be returned for bad request")
		}
	})
}

type pingRequest struct {
	Name string `json:"name"`
}

func (r *pingRequest) Normalize() { TrimAll(&r.Name) }

func (r *pingRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	t.Run("normalizes and validates", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"  ada  "}`))
		req, err := DecodeAndPrepare[pingRequest](r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.Name != "ada" {
			t.Fatalf("expected trimmed name, got %q", req.Name)
		}
	})

	t.Run("validation failure is returned", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"   "}`))
		_, err := DecodeAndPrepare[pingRequest](r)
		if !dErrors.HasCode(err, dErrors.CodeValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","admin":true}`))
		_, err := DecodeAndPrepare[pingRequest](r)
		if !dErrors.HasCode(err, dErrors.CodeBadRequest) {
			t.Fatalf("expected bad request, got %v", err)
		}
	})
}
