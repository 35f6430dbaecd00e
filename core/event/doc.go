// Package event provides a synchronous, per-worker event bus.
//
// Every worker owns exactly one Bus. Applications register listeners on it
// while they bootstrap, so re-bootstrapping an application on a worker that
// was respawned inside the same process starts from an empty bus and never
// accumulates duplicate listeners.
//
//	bus := event.NewBus()
//	bus.Subscribe(event.NewHandlerFunc(func(ctx context.Context, e UserCreated) error {
//		return mailer.Welcome(ctx, e.Email)
//	}))
//
//	err := bus.Publish(ctx, UserCreated{Email: "user@example.com"})
package event
