package task

import "errors"

var (
	ErrNoTaskWorkers    = errors.New("no task workers configured")
	ErrHandlerNotFound  = errors.New("no handler registered for task")
	ErrDuplicateHandler = errors.New("task handler already registered")
	ErrInvalidPayload   = errors.New("invalid task payload")
	ErrHandlerPanic     = errors.New("task handler panicked")
	ErrEnqueuerClosed   = errors.New("task enqueuer is closed")
)
