// Package health provides HTTP handlers for service health monitoring.
//
// Handlers:
//   - Liveness: Process is running (no dependency checks)
//   - Readiness: All dependencies are available
//   - NoContent: Returns 204 for minimal overhead
//
// Usage:
//
//	r := chi.NewRouter()
//	r.Get("/health/live", health.Liveness)
//	r.Get("/health/ready", health.Readiness(logger, store.Ping))
//
// Dependency checks must follow the Check signature:
//
//	func checkRedis(ctx context.Context) error {
//		return client.Ping(ctx).Err()
//	}
package health
