package sentinel

import "errors"

// Sentinel errors for store facts. Stores return these (optionally wrapped)
// and services translate them into domain errors:
//   - ErrNotFound: no row matched the lookup
//   - ErrAlreadyUsed: a single-use record (attestation token) was already consumed
//   - ErrInvalidState: a conditional update found the row in another state
//   - ErrConflict: a uniqueness constraint rejected the write
//   - ErrUnavailable: a backing service is temporarily unreachable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
