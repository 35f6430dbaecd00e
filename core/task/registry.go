package task

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dmitrymomot/prefork/core/logger"
)

// Registry maps task names to handlers and runs tasks against them.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		handlers: make(map[string]Handler),
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds handlers. A name may be registered only once.
func (r *Registry) Register(handlers ...Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, h := range handlers {
		if _, ok := r.handlers[h.Name()]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateHandler, h.Name())
		}
		r.handlers[h.Name()] = h
	}
	return nil
}

// Has reports whether a handler is registered for name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[name]
	return ok
}

// Run executes t with its registered handler. Handler panics are returned
// as ErrHandlerPanic instead of propagating.
func (r *Registry) Run(ctx context.Context, t Task) (retErr error) {
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			retErr = fmt.Errorf("%w: %s: %v", ErrHandlerPanic, t.Name, p)
			r.logger.ErrorContext(ctx, "task handler panicked",
				logger.Key("task_id", t.ID.String()),
				logger.Key("task_name", t.Name),
				logger.Key("panic", p),
				logger.StackTrace(debug.Stack()))
		}
	}()

	r.mu.RLock()
	h, ok := r.handlers[t.Name]
	r.mu.RUnlock()

	if !ok {
		r.logger.ErrorContext(ctx, "no handler registered for task",
			logger.Key("task_id", t.ID.String()),
			logger.Key("task_name", t.Name))
		return fmt.Errorf("%w: %s", ErrHandlerNotFound, t.Name)
	}

	if err := h.Handle(ctx, t.Payload); err != nil {
		r.logger.ErrorContext(ctx, "task failed",
			logger.Key("task_id", t.ID.String()),
			logger.Key("task_name", t.Name),
			logger.Elapsed(start),
			logger.Error(err))
		return err
	}

	r.logger.DebugContext(ctx, "task completed",
		logger.Key("task_id", t.ID.String()),
		logger.Key("task_name", t.Name),
		logger.Elapsed(start))
	return nil
}
