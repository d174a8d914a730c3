package driver

import (
	"errors"
	"fmt"
)

// Sentinel errors for driver operations.
var (
	// ErrNotConnected indicates an operation requiring a device session
	// was called before Connect succeeded.
	ErrNotConnected = errors.New("driver: not connected")

	// ErrOutOfRange indicates a numeric channel index outside the
	// enumerated range.
	ErrOutOfRange = errors.New("driver: channel index out of range")

	// ErrNotFound indicates no channel matches the requested name.
	ErrNotFound = errors.New("driver: channel not found")

	// ErrReadOnly indicates a write was attempted on a read-only channel.
	ErrReadOnly = errors.New("driver: channel is read-only")

	// ErrStateMismatch indicates a write did not stick after all
	// verification attempts. Use errors.Is to match; the concrete error
	// is a *StateMismatchError carrying the observed state.
	ErrStateMismatch = errors.New("driver: device state did not match after write")

	// ErrNoMeter indicates a metric read on a channel that is not a
	// meter gauge.
	ErrNoMeter = errors.New("driver: channel has no meter")
)

// StateMismatchError reports a write whose verification failed on every
// attempt. Observed is the relay state seen after the final attempt.
type StateMismatchError struct {
	Desired  bool
	Observed bool
	Attempts int
}

func (e *StateMismatchError) Error() string {
	return fmt.Sprintf("driver: device reported %v after %d attempts to set %v",
		e.Observed, e.Attempts, e.Desired)
}

// Is matches ErrStateMismatch so callers can use errors.Is without
// unwrapping the concrete type.
func (e *StateMismatchError) Is(target error) bool {
	return target == ErrStateMismatch
}
