// Package domainerrors defines coded errors that services return and the HTTP
// layer translates into status codes. Stores return sentinel errors instead
// (see pkg/platform/sentinel); services wrap those into one of these codes.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies a class of domain failure. The string value is what clients
// see in the "error" field of a JSON error body.
type Code string

const (
	CodeInternal           Code = "internal_error"
	CodeInvariantViolation Code = "invariant_violation"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeBadRequest         Code = "bad_request"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeTimeout            Code = "timeout"
	CodeRateLimited        Code = "rate_limited"

	// Orchestrator specific codes.
	CodeTargetNotFound              Code = "target_not_found"
	CodeInsufficientTrustedContacts Code = "insufficient_trusted_contacts"
	CodeTokenNotFound               Code = "token_not_found"
	CodeAlreadyDecided              Code = "already_decided"
	CodeNoReportToCancel            Code = "no_report_to_cancel"
	CodeReportAlreadyFinal          Code = "report_already_final"
	CodeDeliverableReleased         Code = "deliverable_released"
)

// Error is a domain error carrying a Code, a client-safe message, and an
// optional wrapped cause that is never shown to clients.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error with the given code.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and client message to an underlying error.
// Returns nil when err is nil so callers can wrap unconditionally.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// As returns the outermost domain error in the chain, if any.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether the outermost domain error in err's chain has code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// Is is an alias of HasCode kept for handler readability.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the code of err, or CodeInternal when err carries none.
func CodeOf(err error) Code {
	if de, ok := As(err); ok {
		return de.Code
	}
	return CodeInternal
}

// HTTPStatus maps a code onto the HTTP status used in responses.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeInvalidInput, CodeBadRequest,
		CodeTargetNotFound, CodeInsufficientTrustedContacts:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeTokenNotFound, CodeNoReportToCancel:
		return http.StatusNotFound
	case CodeConflict, CodeAlreadyDecided, CodeReportAlreadyFinal, CodeDeliverableReleased:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
