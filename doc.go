// Package prefork runs an application handler behind a master, manager and
// worker topology with an optional static file gate and response cache.
//
// Each worker bootstraps its own application instance, serves one request
// at a time and is respawned after max_request requests or a crash:
//
//	cfg, err := prefork.LoadConfig("config/prefork.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	srv, err := prefork.New(cfg, func(ctx context.Context, env handler.Env) (handler.Handler, error) {
//		return handler.HandlerFunc(func(ctx context.Context, r *handler.Request) (*handler.Response, error) {
//			return handler.Text(http.StatusOK, "hi"), nil
//		}), nil
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	if err := srv.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// Requests are served from, in order: the static gate (when
// server.options.enable_static_handler is set), the response cache (when
// cache.switch is 1) and the application. Any failure becomes a 500 with
// body "Oops! An unexpected error occurred." and is logged once.
//
// The liveness marker at server.pid_file holds the master's PID while the
// server runs and is emptied on shutdown; IsRunning reads it.
//
// When server.options.metrics_addr is set, an admin listener exposes
// /metrics, /health/live and /health/ready.
package prefork
