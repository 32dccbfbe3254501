// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the caller is authenticated but not the right actor
	// (e.g. not the listing owner).
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidOperation indicates a state precondition is violated
	// (self-purchase, listing already sold, listing not sold).
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrConflict indicates a duplicate active entity (e.g. a second pending request).
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation")

	// ErrInvalidFormat indicates a well-formed request whose field values are
	// unacceptable (price format, unknown condition).
	ErrInvalidFormat = errors.New("invalid format")

	// ErrUnauthorized indicates failed authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., username taken).
	ErrAlreadyExists = errors.New("already exists")
)
