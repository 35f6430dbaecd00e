package event

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Event represents a published event with metadata and payload.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Payload   any       `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEvent creates an Event with a generated ID and timestamp.
// The name is derived from the payload type, e.g. UserCreated{} -> "UserCreated".
func NewEvent(payload any) Event {
	return Event{
		ID:        uuid.New().String(),
		Name:      eventName(payload),
		Payload:   payload,
		CreatedAt: time.Now(),
	}
}

// eventName returns the bare type name of v, unwrapping pointers.
// Distinct packages declaring the same type name share listeners.
func eventName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
