package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/prefork/core/logger"
	"github.com/dmitrymomot/prefork/core/task"
)

// Host accepts HTTP connections and feeds every request to exactly one
// worker from a fixed pool, restarting workers that fail or reach the
// request limit. Safe for concurrent use.
//
// The master, the manager and each worker run on goroutines locked to their
// own OS thread for their whole life, so each can carry a diagnostic name.
// The thread is discarded when the goroutine exits.
type Host struct {
	addr            string
	hooks           Hooks
	logger          *slog.Logger
	workerNum       int
	taskWorkerNum   int
	maxRequest      int
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	maxHeaderBytes  int
	respawnDelay    time.Duration
	taskQueueSize   int
	taskTimeout     time.Duration

	jobs  chan *job
	tasks chan task.Task

	mu       sync.RWMutex
	running  bool
	listener net.Listener
	ready    chan struct{}
	quit     chan struct{}
	quitOnce sync.Once
}

// job hands one request to a worker. The submitting goroutine blocks on
// done, so the worker may use w until it closes done.
type job struct {
	w       http.ResponseWriter
	r       *http.Request
	done    chan struct{}
	crashed bool
}

type workerExit struct {
	code   int
	signal int
	reason string
}

// New creates a host for addr.
func New(addr string, hooks Hooks, opts ...Option) (*Host, error) {
	if addr == "" {
		return nil, ErrMissingAddress
	}
	if hooks == nil {
		return nil, ErrNilHooks
	}

	h := &Host{
		addr:            addr,
		hooks:           hooks,
		logger:          logger.Discard(),
		workerNum:       runtime.NumCPU(),
		readTimeout:     DefaultReadTimeout,
		writeTimeout:    DefaultWriteTimeout,
		idleTimeout:     DefaultIdleTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
		maxHeaderBytes:  DefaultMaxHeaderBytes,
		respawnDelay:    DefaultRespawnDelay,
		taskQueueSize:   DefaultTaskQueueSize,
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.workerNum < 1 {
		return nil, ErrInvalidWorkerNum
	}

	h.jobs = make(chan *job)
	h.tasks = make(chan task.Task, h.taskQueueSize)
	h.ready = make(chan struct{})
	h.quit = make(chan struct{})
	return h, nil
}

// Addr returns the bound listener address once running, the configured
// address otherwise.
func (h *Host) Addr() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.listener != nil {
		return h.listener.Addr().String()
	}
	return h.addr
}

// Ready is closed once the listener is bound and accepting connections.
func (h *Host) Ready() <-chan struct{} {
	return h.ready
}

// WorkerNum returns the number of request workers.
func (h *Host) WorkerNum() int {
	return h.workerNum
}

// TaskWorkerNum returns the number of task workers.
func (h *Host) TaskWorkerNum() int {
	return h.taskWorkerNum
}

// Run starts the host and blocks until ctx is canceled and shutdown has
// completed, or until the listener fails. A canceled ctx is not an error.
func (h *Host) Run(ctx context.Context) error {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return ErrHostAlreadyRunning
	}
	h.running = true
	h.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		errCh <- h.runMaster(ctx)
	}()
	return <-errCh
}

// Start provides errgroup compatibility.
func (h *Host) Start(ctx context.Context) func() error {
	return func() error {
		return h.Run(ctx)
	}
}

func (h *Host) runMaster(ctx context.Context) error {
	ln, err := net.Listen("tcp", h.addr)
	if err != nil {
		h.stop()
		return fmt.Errorf("%w: %s: %w", ErrListen, h.addr, err)
	}

	srv := &http.Server{
		Handler:        h,
		ReadTimeout:    h.readTimeout,
		WriteTimeout:   h.writeTimeout,
		IdleTimeout:    h.idleTimeout,
		MaxHeaderBytes: h.maxHeaderBytes,
	}

	h.mu.Lock()
	h.listener = ln
	h.mu.Unlock()

	h.hooks.OnMasterStarted(h)
	close(h.ready)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return h.runManager()
	})

	g.Go(func() error {
		h.logger.InfoContext(ctx, "accepting connections", logger.Addr(ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%w: %w", ErrServe, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		// Workers stay up until in-flight requests drain.
		defer h.stop()

		h.logger.Info("shutting down server gracefully", logger.Duration(h.shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%w: %w", ErrShutdown, err)
		}
		return nil
	})

	err = g.Wait()
	h.hooks.OnShutdown(h)
	return err
}

func (h *Host) stop() {
	h.quitOnce.Do(func() { close(h.quit) })
}

func (h *Host) stopping() bool {
	select {
	case <-h.quit:
		return true
	default:
		return false
	}
}

func (h *Host) runManager() error {
	runtime.LockOSThread()
	h.hooks.OnManagerStarted(h)

	var wg sync.WaitGroup
	total := h.workerNum + h.taskWorkerNum
	for id := range total {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.supervise(id, id >= h.workerNum)
		}()
	}
	wg.Wait()

	if n := len(h.tasks); n > 0 {
		h.logger.Warn("dropping queued tasks on shutdown", logger.Count("tasks", n))
	}
	h.hooks.OnManagerStopped(h)
	return nil
}

// supervise keeps worker slot id running until the host stops.
func (h *Host) supervise(id int, taskWorker bool) {
	for {
		exit := h.spawn(id, taskWorker)
		if exit.code != 0 {
			h.hooks.OnWorkerError(h, id, os.Getpid(), exit.code, exit.signal)
		}
		if h.stopping() {
			return
		}

		if exit.code != 0 {
			select {
			case <-h.quit:
				return
			case <-time.After(h.respawnDelay):
			}
		}

		h.logger.Debug("respawning worker",
			logger.WorkerID(id),
			logger.WorkerKind(taskWorker),
			logger.Key("reason", exit.reason))
	}
}

// spawn runs one worker lifetime on a fresh locked thread.
func (h *Host) spawn(id int, taskWorker bool) workerExit {
	done := make(chan workerExit, 1)
	go func() {
		runtime.LockOSThread()
		done <- h.workerLoop(id, taskWorker)
	}()
	return <-done
}

func (h *Host) workerLoop(id int, taskWorker bool) (exit workerExit) {
	w, err := h.startWorker(id, taskWorker)
	if err != nil {
		h.logger.Error("worker failed to start",
			logger.WorkerID(id),
			logger.WorkerKind(taskWorker),
			logger.Error(err))
		return workerExit{code: ExitBootstrapFailure, reason: "start failed"}
	}

	defer func() {
		w.Stop()
		h.hooks.OnWorkerStopped(h, id)
	}()

	served := 0
	for {
		if taskWorker {
			select {
			case <-h.quit:
				return workerExit{reason: "shutdown"}
			case t := <-h.tasks:
				if crashed := h.runTask(id, w, t); crashed {
					return workerExit{code: ExitPanic, reason: "task panic"}
				}
			}
			continue
		}

		select {
		case <-h.quit:
			return workerExit{reason: "shutdown"}
		case j := <-h.jobs:
			if crashed := h.serve(id, w, j); crashed {
				return workerExit{code: ExitPanic, reason: "request panic"}
			}
			served++
			if h.maxRequest > 0 && served >= h.maxRequest {
				return workerExit{reason: "max_request"}
			}
		}
	}
}

func (h *Host) startWorker(id int, taskWorker bool) (w Worker, err error) {
	defer func() {
		if v := recover(); v != nil {
			w = nil
			err = fmt.Errorf("panic in worker start: %v", v)
		}
	}()
	w, err = h.hooks.OnWorkerStarted(h, id, taskWorker)
	if err == nil && w == nil {
		err = errors.New("worker start returned no worker")
	}
	return w, err
}

func (h *Host) serve(id int, w Worker, j *job) (crashed bool) {
	defer func() {
		if v := recover(); v != nil {
			crashed = true
			j.crashed = true
			h.logger.Error("worker crashed while serving request",
				logger.WorkerID(id),
				logger.Method(j.r.Method),
				logger.Path(j.r.URL.Path),
				logger.Key("panic", v),
				logger.StackTrace(debug.Stack()))
		}
		close(j.done)
	}()

	w.OnRequest(j.w, j.r)
	return false
}

func (h *Host) runTask(id int, w Worker, t task.Task) (crashed bool) {
	ctx := context.Background()
	if h.taskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.taskTimeout)
		defer cancel()
	}

	defer func() {
		if v := recover(); v != nil {
			crashed = true
			h.logger.Error("worker crashed while running task",
				logger.WorkerID(id),
				logger.Key("task_name", t.Name),
				logger.Key("panic", v),
				logger.StackTrace(debug.Stack()))
		}
	}()

	if err := w.OnTask(ctx, t); err != nil {
		h.logger.Warn("task failed",
			logger.WorkerID(id),
			logger.Key("task_id", t.ID.String()),
			logger.Key("task_name", t.Name),
			logger.Error(err))
	}
	return false
}

// ServeHTTP hands r to the next free request worker and waits until the
// worker has answered it.
func (h *Host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	j := &job{w: w, r: r, done: make(chan struct{})}

	select {
	case h.jobs <- j:
	case <-r.Context().Done():
		return
	case <-h.quit:
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	<-j.done
	if j.crashed {
		// The worker died mid-request; drop the connection like a crashed process would.
		panic(http.ErrAbortHandler)
	}
}

// Enqueue hands payload to the task workers.
func (h *Host) Enqueue(ctx context.Context, payload any) error {
	if h.taskWorkerNum == 0 {
		return task.ErrNoTaskWorkers
	}
	if h.stopping() {
		return ErrHostStopped
	}

	t, err := task.New(payload)
	if err != nil {
		return err
	}

	select {
	case h.tasks <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.quit:
		return ErrHostStopped
	}
}
