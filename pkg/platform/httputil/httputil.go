// Package httputil holds the JSON response helpers shared by every handler.
package httputil

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	dErrors "memento/pkg/domain-errors"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err onto a status code and JSON body. Internal errors never
// expose their description.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := errorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		if de, ok := dErrors.As(err); ok {
			resp.ErrorDescription = de.Message
		}
	}
	WriteJSON(w, dErrors.HTTPStatus(code), resp)
}

// Preparable request bodies normalize and validate themselves after decoding.
type Preparable interface {
	Normalize()
	Validate() error
}

// DecodeAndPrepare decodes a JSON body into T, then normalizes and validates it.
func DecodeAndPrepare[T any, PT interface {
	*T
	Preparable
}](r *http.Request) (*T, error) {
	var req T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if err == io.EOF {
			return nil, dErrors.New(dErrors.CodeBadRequest, "request body is required")
		}
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	p := PT(&req)
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// TrimAll trims surrounding whitespace from each referenced string.
func TrimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
