package bridge

import "errors"

// Sentinel errors for bridge operations.
var (
	// ErrTimeout indicates an operation's context expired before the
	// worker finished executing it.
	ErrTimeout = errors.New("bridge: operation timed out")

	// ErrShutdown indicates the bridge rejected an operation because it
	// was shutting down at the time.
	ErrShutdown = errors.New("bridge: shutting down")
)
