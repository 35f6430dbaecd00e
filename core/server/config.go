package server

import (
	"runtime"
	"time"
)

// Config holds host configuration with environment variable support.
type Config struct {
	Addr string `env:"SERVER_ADDR"`

	WorkerNum     int `env:"SERVER_WORKER_NUM"`
	TaskWorkerNum int `env:"SERVER_TASK_WORKER_NUM"`
	MaxRequest    int `env:"SERVER_MAX_REQUEST"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT"`

	MaxHeaderBytes int `env:"SERVER_MAX_HEADER_BYTES"`
}

// DefaultConfig returns a Config with one request worker per CPU.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		WorkerNum:       runtime.NumCPU(),
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		MaxHeaderBytes:  DefaultMaxHeaderBytes,
	}
}

// NewFromConfig creates a Host from configuration.
// Additional options can override config values.
func NewFromConfig(cfg Config, hooks Hooks, opts ...Option) (*Host, error) {
	if cfg.Addr == "" {
		return nil, ErrMissingAddress
	}

	configOpts := []Option{
		WithTaskWorkerNum(cfg.TaskWorkerNum),
		WithMaxRequest(cfg.MaxRequest),
	}
	if cfg.WorkerNum > 0 {
		configOpts = append(configOpts, WithWorkerNum(cfg.WorkerNum))
	}
	if cfg.ReadTimeout > 0 {
		configOpts = append(configOpts, WithReadTimeout(cfg.ReadTimeout))
	}
	if cfg.WriteTimeout > 0 {
		configOpts = append(configOpts, WithWriteTimeout(cfg.WriteTimeout))
	}
	if cfg.IdleTimeout > 0 {
		configOpts = append(configOpts, WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout > 0 {
		configOpts = append(configOpts, WithShutdownTimeout(cfg.ShutdownTimeout))
	}
	if cfg.MaxHeaderBytes > 0 {
		configOpts = append(configOpts, WithMaxHeaderBytes(cfg.MaxHeaderBytes))
	}

	configOpts = append(configOpts, opts...)

	return New(cfg.Addr, hooks, configOpts...)
}
