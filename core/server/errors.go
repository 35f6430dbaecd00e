package server

import "errors"

var (
	ErrNilHooks           = errors.New("server hooks are required")
	ErrInvalidWorkerNum   = errors.New("worker_num must be at least 1")
	ErrMissingAddress     = errors.New("server address is required")
	ErrHostAlreadyRunning = errors.New("host is already running")
	ErrHostStopped        = errors.New("host is stopped")
	ErrListen             = errors.New("failed to listen")
	ErrServe              = errors.New("HTTP server error")
	ErrShutdown           = errors.New("HTTP shutdown error")
)
