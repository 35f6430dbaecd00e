package task

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Task is a unit of deferred work.
type Task struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// New builds a Task named after the payload type with its JSON encoding.
func New(payload any) (Task, error) {
	name := Name(payload)
	if name == "" {
		return Task{}, fmt.Errorf("%w: unnamed payload type %T", ErrInvalidPayload, payload)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Task{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	return Task{
		ID:        uuid.New(),
		Name:      name,
		Payload:   data,
		CreatedAt: time.Now(),
	}, nil
}

// Name returns the task name for a payload: its type name without pointers.
func Name(payload any) string {
	t := reflect.TypeOf(payload)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Enqueuer hands payloads to task workers.
type Enqueuer interface {
	Enqueue(ctx context.Context, payload any) error
}

// EnqueuerFunc adapts a function to Enqueuer.
type EnqueuerFunc func(ctx context.Context, payload any) error

func (f EnqueuerFunc) Enqueue(ctx context.Context, payload any) error {
	return f(ctx, payload)
}

// NoopEnqueuer rejects every payload with ErrNoTaskWorkers.
var NoopEnqueuer Enqueuer = EnqueuerFunc(func(context.Context, any) error {
	return ErrNoTaskWorkers
})
