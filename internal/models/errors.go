package models

import "errors"

// Sentinel errors used across layers. Handlers map them to HTTP status codes
// with errors.Is.
var (
	// ErrValidation marks malformed input (bad cycle counts, non-finite amounts).
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks a missing entity that is the direct subject of an
	// operation. Missing references inside aggregates are skipped, not raised.
	ErrNotFound = errors.New("not found")
)
