package event

import "errors"

var (
	// ErrNilHandler is returned when subscribing a nil handler.
	ErrNilHandler = errors.New("event handler is nil")

	// ErrHandlerPanic wraps a panic raised by a listener.
	ErrHandlerPanic = errors.New("event handler panicked")
)
