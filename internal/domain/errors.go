package domain

import "errors"

// Error kinds. Every sentinel in the service wraps exactly one of them,
// so transport code can map any error with errors.Is.
var (
	// ErrValidation malformed input or a rule on the input was broken
	ErrValidation = errors.New("validation error")

	// ErrNotFound unknown court or booking
	ErrNotFound = errors.New("not found")

	// ErrConflict overlapping interval or illegal status transition
	ErrConflict = errors.New("conflict")

	// ErrForbidden requester is not allowed to perform the operation
	ErrForbidden = errors.New("forbidden")

	// ErrInternal storage or infrastructure failure
	ErrInternal = errors.New("internal error")
)
