package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/prefork/core/logger"
)

// Bus delivers events synchronously to the listeners registered on it.
// Safe for concurrent use.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]Handler
	logger    *slog.Logger
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithBusLogger sets the logger used to report listener failures.
func WithBusLogger(l *slog.Logger) BusOption {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		listeners: make(map[string][]Handler),
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers listeners. Registering the same listener twice delivers
// each event to it twice; callers own their registration discipline.
func (b *Bus) Subscribe(handlers ...Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, h := range handlers {
		if h == nil {
			return ErrNilHandler
		}
		name := h.EventName()
		b.listeners[name] = append(b.listeners[name], h)
	}
	return nil
}

// Listeners returns how many listeners are registered for name.
func (b *Bus) Listeners(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[name])
}

// Len returns the total number of registered listeners.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, hs := range b.listeners {
		n += len(hs)
	}
	return n
}

// Reset drops every registered listener.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = make(map[string][]Handler)
}

// Publish delivers payload to every listener registered for its type name
// and returns the joined listener errors. A panicking listener is reported
// as ErrHandlerPanic; the remaining listeners still run.
func (b *Bus) Publish(ctx context.Context, payload any) error {
	evt := NewEvent(payload)

	b.mu.RLock()
	handlers := append([]Handler(nil), b.listeners[evt.Name]...)
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := b.call(ctx, h, evt); err != nil {
			b.logger.ErrorContext(ctx, "event listener failed",
				logger.Event(evt.Name),
				logger.Key("event_id", evt.ID),
				logger.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Bus) call(ctx context.Context, h Handler, evt Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrHandlerPanic, evt.Name, r)
		}
	}()
	return h.Handle(ctx, evt.Payload)
}
