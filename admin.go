package prefork

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/prefork/core/health"
	"github.com/dmitrymomot/prefork/core/logger"
	"github.com/dmitrymomot/prefork/core/server"
)

// AdminHandler returns the router served on metrics_addr.
func (s *Server) AdminHandler() http.Handler {
	return s.admin
}

func (s *Server) adminRouter() http.Handler {
	checks := append([]health.Check{s.hostReady}, s.checks...)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Route("/health", func(r chi.Router) {
		r.Get("/", health.NoContent)
		r.Get("/live", health.Liveness)
		r.Get("/ready", health.Readiness(s.logger, checks...))
	})
	return r
}

func (s *Server) hostReady(context.Context) error {
	select {
	case <-s.host.Ready():
		return nil
	default:
		return fmt.Errorf("%s is not accepting connections yet", s.cfg.Server.Name)
	}
}

func (s *Server) serveAdmin(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAdminServer, err)
	}

	srv := &http.Server{
		Handler:           s.admin,
		ReadHeaderTimeout: s.cfg.Server.Options.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("admin server listening", logger.Addr(ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errServerClosed(err) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrAdminServer, err)
	case <-ctx.Done():
	}

	timeout := s.cfg.Server.Options.ShutdownTimeout
	if timeout <= 0 {
		timeout = server.DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%w: %w", ErrAdminServer, err)
	}
	return nil
}
