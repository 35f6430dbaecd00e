package prefork

import (
	"errors"
	"log/slog"

	"github.com/dmitrymomot/prefork/core/cache"
	"github.com/dmitrymomot/prefork/core/dispatch"
	"github.com/dmitrymomot/prefork/core/health"
	"github.com/dmitrymomot/prefork/core/lifecycle"
	"github.com/dmitrymomot/prefork/core/server"
	"github.com/dmitrymomot/prefork/core/task"
)

// Option configures a Server.
type Option func(*Server) error

// WithLogger replaces the logger built from the log config section.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		s.logger = logger
		return nil
	}
}

// WithCacheStore uses store instead of the one selected by cache.driver.
// The cache still has to be switched on in the config.
func WithCacheStore(store cache.Store) Option {
	return func(s *Server) error {
		if store == nil {
			return cache.ErrNilStore
		}
		s.store = openedStore{store: store, close: noClose}
		return nil
	}
}

// WithTaskHandlers registers handlers run by task workers.
func WithTaskHandlers(handlers ...task.Handler) Option {
	return func(s *Server) error {
		s.taskHandlers = append(s.taskHandlers, handlers...)
		return nil
	}
}

// WithClearers adds caches cleared on every worker start.
func WithClearers(clearers ...lifecycle.Clearer) Option {
	return func(s *Server) error {
		s.clearers = append(s.clearers, clearers...)
		return nil
	}
}

// WithGate adds a gate consulted after the static and cache gates.
func WithGate(name string, gate dispatch.TryServer) Option {
	return func(s *Server) error {
		if gate == nil {
			return errors.New("gate cannot be nil")
		}
		s.pipelineOpts = append(s.pipelineOpts, dispatch.WithGate(name, gate))
		return nil
	}
}

// WithReadinessCheck adds a check to /health/ready.
func WithReadinessCheck(check health.Check) Option {
	return func(s *Server) error {
		if check == nil {
			return errors.New("readiness check cannot be nil")
		}
		s.checks = append(s.checks, check)
		return nil
	}
}

// WithHostOptions passes options to the underlying host, overriding config values.
func WithHostOptions(opts ...server.Option) Option {
	return func(s *Server) error {
		s.hostOpts = append(s.hostOpts, opts...)
		return nil
	}
}
