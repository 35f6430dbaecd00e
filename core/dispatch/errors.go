package dispatch

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRequest = errors.New("malformed request")
	ErrHandlerFailure   = errors.New("application handler failed")
	ErrNilApplication   = errors.New("application handler is nil")
)

// FailureBody is the response body of every contained failure.
const FailureBody = "Oops! An unexpected error occurred."

// PanicError is implemented by errors created from recovered panics.
type PanicError interface {
	error
	// Value returns the original panic value.
	Value() any
	// Stack returns the stack trace captured at the panic point.
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) Value() any {
	return e.value
}

func (e *panicError) Stack() []byte {
	return e.stack
}

// Unwrap allows errors.Is/As to see an error passed to panic.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
