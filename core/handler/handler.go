package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/prefork/core/event"
	"github.com/dmitrymomot/prefork/core/task"
)

// Request is the application's view of an incoming HTTP request.
type Request struct {
	Method     string
	Path       string
	Host       string
	Header     http.Header
	Query      url.Values
	Body       []byte
	RemoteAddr string
	RequestID  string
}

// Handler is the embedded application.
// Handle is an opaque blocking call; it may return an error or panic.
type Handler interface {
	Handle(ctx context.Context, req *Request) (*Response, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

func (f HandlerFunc) Handle(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Env carries per-worker collaborators into Bootstrap.
type Env struct {
	WorkerID int
	Events   *event.Bus
	Tasks    task.Enqueuer
	Logger   *slog.Logger
}

// Bootstrap builds a fresh application instance for one worker.
type Bootstrap func(ctx context.Context, env Env) (Handler, error)
