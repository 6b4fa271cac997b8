package course

import "errors"

// Engine error taxonomy. Controllers translate these to HTTP statuses:
// ErrNotFound -> 404, ErrValidation -> 400, ErrDataIntegrity -> 500,
// ErrConflict -> 409. Everything else is treated as a server error.
var (
	ErrNotFound      = errors.New("record not found")
	ErrValidation    = errors.New("validation failed")
	ErrDataIntegrity = errors.New("corrupt stored data")
	ErrConflict      = errors.New("concurrent modification conflict")
)
