package event

import (
	"context"
	"encoding/json"
	"fmt"
)

// HandlerFunc is a type-safe listener for events of type T.
type HandlerFunc[T any] func(context.Context, T) error

// Handler processes events of a single name.
type Handler interface {
	EventName() string
	Handle(ctx context.Context, payload any) error
}

// NewHandler creates a listener with an explicit event name.
func NewHandler[T any](name string, fn HandlerFunc[T]) Handler {
	return &typedHandler[T]{name: name, fn: fn}
}

// NewHandlerFunc creates a listener whose event name is derived from T.
func NewHandlerFunc[T any](fn HandlerFunc[T]) Handler {
	var zero T
	return &typedHandler[T]{name: eventName(zero), fn: fn}
}

type typedHandler[T any] struct {
	name string
	fn   HandlerFunc[T]
}

func (h *typedHandler[T]) EventName() string {
	return h.name
}

func (h *typedHandler[T]) Handle(ctx context.Context, payload any) error {
	typed, err := decodePayload[T](payload)
	if err != nil {
		return err
	}
	return h.fn(ctx, typed)
}

// decodePayload accepts either a value of type T or its JSON encoding.
func decodePayload[T any](payload any) (T, error) {
	var zero T

	if v, ok := payload.(T); ok {
		return v, nil
	}

	// Event names ignore pointers, so *T reaches T listeners.
	if p, ok := payload.(*T); ok {
		if p == nil {
			return zero, fmt.Errorf("nil event payload: %T", payload)
		}
		return *p, nil
	}

	if data, ok := payload.([]byte); ok {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return zero, fmt.Errorf("decode event payload: %w", err)
		}
		return v, nil
	}

	return zero, fmt.Errorf("unexpected payload type: %T", payload)
}
