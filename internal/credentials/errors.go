package credentials

import "errors"

// Sentinel errors for credential operations.
var (
	// ErrNotFound indicates no credential exists for the requested key.
	ErrNotFound = errors.New("credentials: not found")

	// ErrEmptyKey indicates an empty service or key was supplied.
	ErrEmptyKey = errors.New("credentials: service and key must not be empty")
)
