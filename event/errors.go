package event

import "errors"

var (
	// ErrNilHandler is returned when a subscription is attempted with a nil
	// handler function.
	ErrNilHandler = errors.New("event: handler cannot be nil")

	// ErrInvalidName is returned when an event name is empty or contains a
	// character outside the host's accepted set (alphanumerics, '-', '/',
	// ':' and '_').
	ErrInvalidName = errors.New("event: invalid event name")

	// ErrClosed is returned when an operation is attempted on a broker that
	// has been shut down.
	ErrClosed = errors.New("event: broker is closed")
)
