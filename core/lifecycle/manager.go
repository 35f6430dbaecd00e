package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/dmitrymomot/prefork/core/dispatch"
	"github.com/dmitrymomot/prefork/core/event"
	"github.com/dmitrymomot/prefork/core/handler"
	"github.com/dmitrymomot/prefork/core/logger"
	"github.com/dmitrymomot/prefork/core/procname"
	"github.com/dmitrymomot/prefork/core/task"
)

// Recorder receives worker lifecycle events.
type Recorder interface {
	WorkerStarted(taskWorker bool)
	WorkerStopped(taskWorker bool)
	TaskFinished(err error)
}

// Manager starts workers.
type Manager struct {
	name         string
	bootstrap    handler.Bootstrap
	clearers     []Clearer
	pipelineOpts []dispatch.Option
	tasks        *task.Registry
	recorder     Recorder
	logger       *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClearers sets the caches cleared on every worker start.
func WithClearers(clearers ...Clearer) Option {
	return func(m *Manager) {
		m.clearers = append(m.clearers, clearers...)
	}
}

// WithPipelineOptions sets options applied to every request worker's pipeline.
func WithPipelineOptions(opts ...dispatch.Option) Option {
	return func(m *Manager) {
		m.pipelineOpts = append(m.pipelineOpts, opts...)
	}
}

// WithTaskRegistry sets the handlers run by task workers.
func WithTaskRegistry(r *task.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.tasks = r
		}
	}
}

// WithRecorder sets the lifecycle recorder.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) {
		m.recorder = r
	}
}

// WithLogger sets the manager logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a manager for the server called name.
func NewManager(name string, bootstrap handler.Bootstrap, opts ...Option) (*Manager, error) {
	if bootstrap == nil {
		return nil, ErrNilBootstrap
	}
	m := &Manager{
		name:      name,
		bootstrap: bootstrap,
		tasks:     task.NewRegistry(),
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// ProcessName returns the diagnostic name for a role such as "master".
func (m *Manager) ProcessName(role string) string {
	return m.name + "-" + role
}

// NameCurrent names the calling thread when the platform supports it.
// Failures are logged and otherwise ignored.
func (m *Manager) NameCurrent(name string) {
	if !procname.Supported() {
		return
	}
	if err := procname.Set(name); err != nil {
		m.logger.Debug("set process name failed", logger.Key("name", name), logger.Error(err))
	}
}

// Start prepares worker workerID. enq is handed to the application for
// deferring work to task workers.
func (m *Manager) Start(ctx context.Context, workerID int, taskWorker bool, enq task.Enqueuer) (*WorkerState, error) {
	log := m.logger.With(logger.WorkerID(workerID), logger.WorkerKind(taskWorker))

	ws := &WorkerState{
		ID:         workerID,
		TaskWorker: taskWorker,
		logger:     log,
		recorder:   m.recorder,
	}
	ws.setState(StateStarting)

	m.clearCaches(log)
	m.NameCurrent(m.ProcessName(fmt.Sprintf("worker-%d", workerID)))

	if taskWorker {
		ws.tasks = m.tasks
		ws.setState(StateReady)
		m.started(taskWorker)
		log.Debug("task worker ready")
		return ws, nil
	}

	if enq == nil {
		enq = task.NoopEnqueuer
	}
	bus := event.NewBus(event.WithBusLogger(log))
	app, err := m.runBootstrap(ctx, handler.Env{
		WorkerID: workerID,
		Events:   bus,
		Tasks:    enq,
		Logger:   log,
	})
	if err != nil {
		ws.setState(StateStopped)
		return nil, err
	}

	opts := append([]dispatch.Option{dispatch.WithLogger(log)}, m.pipelineOpts...)
	pipeline, err := dispatch.NewPipeline(app, opts...)
	if err != nil {
		ws.setState(StateStopped)
		return nil, fmt.Errorf("%w: %w", ErrBootstrapFailed, err)
	}

	ws.app = app
	ws.events = bus
	ws.pipeline = pipeline
	ws.setState(StateReady)
	m.started(taskWorker)
	log.Debug("request worker ready", logger.Count("listeners", bus.Len()))
	return ws, nil
}

func (m *Manager) clearCaches(log *slog.Logger) {
	for _, c := range m.clearers {
		if err := c.Clear(); err != nil {
			log.Debug("cache clearer failed", logger.Error(err))
		}
	}
}

func (m *Manager) runBootstrap(ctx context.Context, env handler.Env) (app handler.Handler, err error) {
	defer func() {
		if v := recover(); v != nil {
			app = nil
			err = fmt.Errorf("%w: panic: %v", ErrBootstrapFailed, v)
			env.Logger.Error("application bootstrap panicked",
				logger.Key("panic", v),
				logger.StackTrace(debug.Stack()))
		}
	}()

	app, err = m.bootstrap(ctx, env)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBootstrapFailed, err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: nil application", ErrBootstrapFailed)
	}
	return app, nil
}

func (m *Manager) started(taskWorker bool) {
	if m.recorder != nil {
		m.recorder.WorkerStarted(taskWorker)
	}
}
