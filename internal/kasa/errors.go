package kasa

import "errors"

// Sentinel errors for backend operations.
var (
	// ErrDiscoveryFailed indicates network discovery did not complete.
	ErrDiscoveryFailed = errors.New("kasa: discovery failed")

	// ErrCommandFailed indicates a device command returned an error.
	ErrCommandFailed = errors.New("kasa: command failed")

	// ErrTimeout indicates a backend operation exceeded its deadline.
	ErrTimeout = errors.New("kasa: operation timed out")
)
