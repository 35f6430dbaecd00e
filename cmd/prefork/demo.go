package main

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrymomot/prefork/core/event"
	"github.com/dmitrymomot/prefork/core/handler"
	"github.com/dmitrymomot/prefork/core/logger"
	"github.com/dmitrymomot/prefork/core/task"
)

// visit is published on the worker's event bus and deferred to a task worker.
type visit struct {
	Path string    `json:"path"`
	At   time.Time `json:"at"`
}

var visitLogger = task.NewTaskHandler(func(context.Context, visit) error {
	return nil
})

// bootstrapDemo builds the demo application: a JSON endpoint that reports
// which worker answered, plus a redirect and a failing route.
func bootstrapDemo(_ context.Context, env handler.Env) (handler.Handler, error) {
	err := env.Events.Subscribe(event.NewHandlerFunc(func(ctx context.Context, v visit) error {
		if err := env.Tasks.Enqueue(ctx, v); err != nil {
			env.Logger.DebugContext(ctx, "visit not recorded", logger.Error(err))
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}

	return handler.HandlerFunc(func(ctx context.Context, r *handler.Request) (*handler.Response, error) {
		if err := env.Events.Publish(ctx, visit{Path: r.Path, At: time.Now()}); err != nil {
			return nil, err
		}

		switch r.Path {
		case "/home":
			return handler.Redirect("/", http.StatusMovedPermanently), nil
		case "/panic":
			panic("demo panic")
		}
		return handler.JSON(http.StatusOK, map[string]any{
			"worker":     env.WorkerID,
			"path":       r.Path,
			"request_id": r.RequestID,
		})
	}), nil
}
