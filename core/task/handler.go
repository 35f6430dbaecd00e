package task

import (
	"context"
	"encoding/json"
	"fmt"
)

type (
	// Handler processes tasks of one name.
	Handler interface {
		Name() string
		Handle(ctx context.Context, payload json.RawMessage) error
	}

	// HandlerFunc is a type-safe task handler.
	HandlerFunc[T any] func(ctx context.Context, payload T) error
)

// NewTaskHandler creates a handler named after T.
func NewTaskHandler[T any](fn HandlerFunc[T]) Handler {
	var payload T
	return &typedHandler[T]{name: Name(payload), fn: fn}
}

// NewNamedHandler creates a handler with an explicit name.
func NewNamedHandler[T any](name string, fn HandlerFunc[T]) Handler {
	return &typedHandler[T]{name: name, fn: fn}
}

type typedHandler[T any] struct {
	name string
	fn   HandlerFunc[T]
}

func (h *typedHandler[T]) Name() string {
	return h.name
}

func (h *typedHandler[T]) Handle(ctx context.Context, payload json.RawMessage) error {
	var v T
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &v); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
	}
	return h.fn(ctx, v)
}
