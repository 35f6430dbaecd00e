package lifecycle

import "errors"

var (
	ErrNilBootstrap    = errors.New("application bootstrap is nil")
	ErrBootstrapFailed = errors.New("application bootstrap failed")
	ErrNotTaskWorker   = errors.New("worker does not run tasks")
	ErrNotReady        = errors.New("worker is not ready")
)
