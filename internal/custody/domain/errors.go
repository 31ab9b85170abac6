package domain

import "errors"

// Errors returned by custody operations. Callers match with errors.Is; the
// HTTP layer maps each to a status code.
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrMissingField      = errors.New("missing field")
	ErrInvalidDecision   = errors.New("invalid decision")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrAlreadyDecided    = errors.New("request already decided")
)
