package lifecycle

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/dmitrymomot/prefork/core/dispatch"
	"github.com/dmitrymomot/prefork/core/event"
	"github.com/dmitrymomot/prefork/core/handler"
	"github.com/dmitrymomot/prefork/core/logger"
	"github.com/dmitrymomot/prefork/core/task"
)

// WorkerState is the per-worker context created by Manager.Start.
type WorkerState struct {
	ID         int
	TaskWorker bool

	state    atomic.Int32
	app      handler.Handler
	events   *event.Bus
	pipeline *dispatch.Pipeline
	tasks    *task.Registry
	recorder Recorder
	logger   *slog.Logger
}

// State returns the current lifecycle state.
func (ws *WorkerState) State() State {
	return State(ws.state.Load())
}

func (ws *WorkerState) setState(s State) {
	ws.state.Store(int32(s))
}

// App returns the bootstrapped application; nil for task workers.
func (ws *WorkerState) App() handler.Handler {
	return ws.app
}

// Events returns the worker's event bus; nil for task workers.
func (ws *WorkerState) Events() *event.Bus {
	return ws.events
}

// OnRequest dispatches r. Task workers and workers that are not Ready answer
// with the generic failure response.
func (ws *WorkerState) OnRequest(w http.ResponseWriter, r *http.Request) {
	if ws.pipeline == nil || ws.State() != StateReady {
		ws.logger.ErrorContext(r.Context(), "request routed to worker that cannot serve it",
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.Key("state", ws.State().String()))
		dispatch.WriteFailure(w)
		return
	}
	ws.pipeline.Dispatch(w, r)
}

// OnTask runs t on a task worker.
func (ws *WorkerState) OnTask(ctx context.Context, t task.Task) error {
	if !ws.TaskWorker {
		return ErrNotTaskWorker
	}
	if ws.State() != StateReady {
		return ErrNotReady
	}
	err := ws.tasks.Run(ctx, t)
	if ws.recorder != nil {
		ws.recorder.TaskFinished(err)
	}
	return err
}

// Stop takes the worker out of service. Safe to call more than once.
func (ws *WorkerState) Stop() {
	if !ws.state.CompareAndSwap(int32(StateReady), int32(StateStopping)) {
		return
	}
	if ws.events != nil {
		ws.events.Reset()
	}
	ws.setState(StateStopped)
	if ws.recorder != nil {
		ws.recorder.WorkerStopped(ws.TaskWorker)
	}
	ws.logger.Debug("worker stopped")
}
