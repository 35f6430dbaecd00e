// Package server hosts an HTTP listener in front of a supervised pool of
// workers.
//
// A Host runs three roles, each on its own OS thread: the master owns the
// listener, the manager supervises worker slots, and every worker serves one
// request (or task) at a time. Lifecycle callbacks are delivered through
// Hooks in this order:
//
//	OnMasterStarted -> OnManagerStarted -> OnWorkerStarted (per slot)
//	... serving ...
//	OnWorkerStopped (per slot) -> OnManagerStopped -> OnShutdown
//
// A worker slot is restarted after it served max_request requests, after a
// panic escaped the worker (reported through OnWorkerError with exit code
// 255) and after OnWorkerStarted failed (exit code 1). Requests are never
// shared between workers; a request worker is strictly serial.
//
//	host, err := server.New(":8080", hooks,
//		server.WithWorkerNum(4),
//		server.WithTaskWorkerNum(2),
//		server.WithMaxRequest(10000),
//	)
//	if err != nil {
//		return err
//	}
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(host.Start(ctx))
//	return g.Wait()
//
// Task workers receive payloads queued with Host.Enqueue.
package server
