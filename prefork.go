package prefork

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/prefork/core/cache"
	"github.com/dmitrymomot/prefork/core/dispatch"
	"github.com/dmitrymomot/prefork/core/handler"
	"github.com/dmitrymomot/prefork/core/health"
	"github.com/dmitrymomot/prefork/core/lifecycle"
	"github.com/dmitrymomot/prefork/core/logger"
	"github.com/dmitrymomot/prefork/core/metrics"
	"github.com/dmitrymomot/prefork/core/pidfile"
	"github.com/dmitrymomot/prefork/core/server"
	"github.com/dmitrymomot/prefork/core/static"
	"github.com/dmitrymomot/prefork/core/task"
)

// Server wires the host, the worker lifecycle and the dispatch gates
// together, and implements the host's lifecycle hooks.
type Server struct {
	cfg     Config
	logger  *slog.Logger
	marker  *pidfile.Marker
	metrics *metrics.Collector
	manager *lifecycle.Manager
	host    *server.Host
	admin   http.Handler

	store        openedStore
	taskHandlers []task.Handler
	clearers     []lifecycle.Clearer
	pipelineOpts []dispatch.Option
	checks       []health.Check
	hostOpts     []server.Option
}

var _ server.Hooks = (*Server)(nil)

// New validates cfg and builds a server whose workers run the application
// produced by bootstrap. Cache stores are opened here and closed on shutdown.
func New(cfg Config, bootstrap handler.Bootstrap, opts ...Option) (*Server, error) {
	if bootstrap == nil {
		return nil, ErrNilBootstrap
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		marker:  pidfile.New(cfg.Server.PidFile),
		metrics: metrics.NewCollector(metrics.DefaultNamespace),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.logger == nil {
		s.logger = newLogger(cfg.Server.Name, cfg.Log)
	}

	pipelineOpts, err := s.buildGates()
	if err != nil {
		s.closeStore()
		return nil, err
	}
	pipelineOpts = append(pipelineOpts,
		dispatch.WithMaxBodyBytes(cfg.Server.Options.PackageMaxLength),
		dispatch.WithObserver(s.metrics),
	)
	pipelineOpts = append(pipelineOpts, s.pipelineOpts...)

	registry := task.NewRegistry(task.WithLogger(s.logger))
	if err := registry.Register(s.taskHandlers...); err != nil {
		s.closeStore()
		return nil, err
	}

	s.manager, err = lifecycle.NewManager(cfg.Server.Name, bootstrap,
		lifecycle.WithClearers(append([]lifecycle.Clearer{lifecycle.FreeOSMemory}, s.clearers...)...),
		lifecycle.WithPipelineOptions(pipelineOpts...),
		lifecycle.WithTaskRegistry(registry),
		lifecycle.WithRecorder(s.metrics),
		lifecycle.WithLogger(s.logger),
	)
	if err != nil {
		s.closeStore()
		return nil, err
	}

	hostOpts := append([]server.Option{server.WithLogger(s.logger)}, s.hostOpts...)
	s.host, err = server.NewFromConfig(cfg.hostConfig(), s, hostOpts...)
	if err != nil {
		s.closeStore()
		return nil, err
	}

	s.admin = s.adminRouter()
	return s, nil
}

func (s *Server) buildGates() ([]dispatch.Option, error) {
	var opts []dispatch.Option
	o := s.cfg.Server.Options

	if o.EnableStaticHandler {
		gate, err := static.NewGate(o.DocumentRoot,
			static.WithLocations(o.StaticHandlerLocations...),
			static.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		opts = append(opts, dispatch.WithStatic(gate))
	}

	if !s.cfg.CacheEnabled() {
		return opts, nil
	}
	if s.store.store == nil {
		st, err := openStore(context.Background(), s.cfg.Cache)
		if err != nil {
			return nil, err
		}
		s.store = st
	}
	if s.store.check != nil {
		s.checks = append(s.checks, s.store.check)
	}

	gate, err := cache.NewGate(s.store.store,
		cache.WithTTL(s.cfg.Cache.TTL),
		cache.WithMethods(s.cfg.Cache.Methods...),
		cache.WithIgnoreParams(s.cfg.Cache.IgnoreParams...),
		cache.WithVaryHeaders(s.cfg.Cache.VaryHeaders...),
		cache.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	return append(opts, dispatch.WithCache(gate)), nil
}

// Run serves until ctx is canceled, together with the admin listener when
// metrics_addr is configured.
func (s *Server) Run(ctx context.Context) error {
	defer s.closeStore()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(s.host.Start(ctx))
	if addr := s.cfg.Server.Options.MetricsAddr; addr != "" {
		g.Go(func() error {
			return s.serveAdmin(ctx, addr)
		})
	}
	return g.Wait()
}

// Host returns the underlying host.
func (s *Server) Host() *server.Host {
	return s.host
}

// Metrics returns the Prometheus collector.
func (s *Server) Metrics() *metrics.Collector {
	return s.metrics
}

// Marker returns the liveness marker.
func (s *Server) Marker() *pidfile.Marker {
	return s.marker
}

// IsRunning reports whether the liveness marker says the server runs.
func (s *Server) IsRunning() bool {
	return s.marker.IsRunning()
}

// Addr returns the bound address once the server runs.
func (s *Server) Addr() string {
	return s.host.Addr()
}

func (s *Server) OnMasterStarted(h *server.Host) {
	s.logger.Info(fmt.Sprintf("%s server is starting at http://%s", s.cfg.Server.Name, s.cfg.Addr()),
		logger.Addr(h.Addr()),
		logger.Count("workers", h.WorkerNum()),
		logger.Count("task_workers", h.TaskWorkerNum()))

	s.manager.NameCurrent(s.manager.ProcessName("master"))

	if err := s.marker.MarkRunning(os.Getpid()); err != nil {
		s.logger.Error("failed to write pid file", logger.Key("path", s.marker.Path()), logger.Error(err))
	}
}

func (s *Server) OnManagerStarted(_ *server.Host) {
	s.manager.NameCurrent(s.manager.ProcessName("manager"))
}

func (s *Server) OnWorkerStarted(h *server.Host, workerID int, taskWorker bool) (server.Worker, error) {
	ws, err := s.manager.Start(context.Background(), workerID, taskWorker, h)
	if err != nil {
		return nil, err
	}
	return ws, nil
}

func (s *Server) OnWorkerStopped(_ *server.Host, workerID int) {
	s.logger.Info("worker stopped", logger.WorkerID(workerID))
}

func (s *Server) OnWorkerError(_ *server.Host, workerID, workerPID, exitCode, signal int) {
	s.metrics.WorkerError(exitCode)
	s.logger.Warn("worker exited with error",
		logger.WorkerID(workerID),
		logger.PID(workerPID),
		logger.Count("exit_code", exitCode),
		logger.Count("signal", signal))
}

func (s *Server) OnManagerStopped(_ *server.Host) {
	s.logger.Info("manager stopped")
}

func (s *Server) OnShutdown(_ *server.Host) {
	s.logger.Info("server has shutdown")
	if err := s.marker.MarkStopped(); err != nil {
		s.logger.Error("failed to clear pid file", logger.Key("path", s.marker.Path()), logger.Error(err))
	}
	s.closeStore()
}

func (s *Server) closeStore() {
	if s.store.close == nil {
		return
	}
	if err := s.store.close(); err != nil {
		s.logger.Warn("failed to close cache store", logger.Error(err))
	}
	s.store.close = nil
}

func newLogger(name string, cfg LogConfig) *slog.Logger {
	opts := []logger.Option{
		logger.WithLevel(logger.ParseLevel(cfg.Level)),
		logger.WithAttr(logger.Component(name)),
	}
	if strings.EqualFold(cfg.Format, "json") {
		opts = append(opts, logger.WithJSONFormatter())
	} else {
		opts = append(opts, logger.WithTextFormatter())
	}
	return logger.New(opts...)
}

// errServerClosed reports whether err is the normal end of an http.Server.
func errServerClosed(err error) bool {
	return err == nil || errors.Is(err, http.ErrServerClosed)
}
