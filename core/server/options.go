package server

import (
	"log/slog"
	"time"
)

// Option configures host behavior.
type Option func(*Host)

// WithLogger sets a custom logger for host operations.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithWorkerNum sets the number of request workers.
func WithWorkerNum(n int) Option {
	return func(h *Host) {
		h.workerNum = n
	}
}

// WithTaskWorkerNum sets the number of task workers.
func WithTaskWorkerNum(n int) Option {
	return func(h *Host) {
		if n >= 0 {
			h.taskWorkerNum = n
		}
	}
}

// WithMaxRequest restarts a request worker after it served n requests.
// Zero disables recycling.
func WithMaxRequest(n int) Option {
	return func(h *Host) {
		if n >= 0 {
			h.maxRequest = n
		}
	}
}

// WithReadTimeout sets the maximum duration for reading a request.
func WithReadTimeout(timeout time.Duration) Option {
	return func(h *Host) {
		h.readTimeout = timeout
	}
}

// WithWriteTimeout sets the maximum duration before timing out a response write.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(h *Host) {
		h.writeTimeout = timeout
	}
}

// WithIdleTimeout sets how long keep-alive connections may stay idle.
func WithIdleTimeout(timeout time.Duration) Option {
	return func(h *Host) {
		h.idleTimeout = timeout
	}
}

// WithShutdownTimeout sets the maximum time to wait for graceful shutdown.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(h *Host) {
		h.shutdownTimeout = timeout
	}
}

// WithMaxHeaderBytes limits the size of request headers.
func WithMaxHeaderBytes(n int) Option {
	return func(h *Host) {
		h.maxHeaderBytes = n
	}
}

// WithRespawnDelay sets the pause before a failed worker is restarted.
func WithRespawnDelay(d time.Duration) Option {
	return func(h *Host) {
		if d >= 0 {
			h.respawnDelay = d
		}
	}
}

// WithTaskQueueSize bounds tasks waiting for a task worker.
func WithTaskQueueSize(n int) Option {
	return func(h *Host) {
		if n > 0 {
			h.taskQueueSize = n
		}
	}
}

// WithTaskTimeout bounds a single task run. Zero means no limit.
func WithTaskTimeout(d time.Duration) Option {
	return func(h *Host) {
		if d >= 0 {
			h.taskTimeout = d
		}
	}
}
