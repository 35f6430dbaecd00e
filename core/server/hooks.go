package server

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/prefork/core/task"
)

// Hooks receives the host's lifecycle callbacks.
//
// OnMasterStarted runs on the master thread once the listener is bound,
// OnManagerStarted on the manager thread before any worker starts, and
// OnWorkerStarted on the worker's own thread each time a worker slot is
// (re)started. Task worker ids follow request worker ids.
type Hooks interface {
	OnMasterStarted(h *Host)
	OnManagerStarted(h *Host)
	OnWorkerStarted(h *Host, workerID int, taskWorker bool) (Worker, error)
	OnWorkerStopped(h *Host, workerID int)
	OnWorkerError(h *Host, workerID, workerPID, exitCode, signal int)
	OnManagerStopped(h *Host)
	OnShutdown(h *Host)
}

// Worker serves requests or tasks for one worker slot. A worker is called
// from a single goroutine only.
type Worker interface {
	OnRequest(w http.ResponseWriter, r *http.Request)
	OnTask(ctx context.Context, t task.Task) error
	Stop()
}
