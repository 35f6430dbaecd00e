package dispatch

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dmitrymomot/prefork/core/cache"
	"github.com/dmitrymomot/prefork/core/handler"
	"github.com/dmitrymomot/prefork/core/logger"
)

// Observer receives one call per dispatched request.
type Observer interface {
	ObserveDispatch(outcome string, status int, elapsed time.Duration)
}

// Pipeline dispatches requests for one worker. It holds no per-request
// state; serializing calls into the application is the worker's job.
type Pipeline struct {
	app      handler.Handler
	appLoc   string
	gates    []Gate
	cache    *cache.Gate
	maxBody  int64
	logger   *slog.Logger
	observer Observer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithGate appends a named gate to the chain.
func WithGate(name string, s TryServer) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.gates = append(p.gates, Gate{Name: name, Server: s})
		}
	}
}

// WithStatic appends the static file gate.
func WithStatic(s TryServer) Option {
	return WithGate(OutcomeStatic, s)
}

// WithCache appends the response cache gate and stores cacheable
// application responses on a miss.
func WithCache(g *cache.Gate) Option {
	return func(p *Pipeline) {
		if g == nil {
			return
		}
		p.cache = g
		p.gates = append(p.gates, Gate{Name: OutcomeCacheHit, Server: cacheServer{gate: g}})
	}
}

// WithMaxBodyBytes bounds request bodies handed to the application.
func WithMaxBodyBytes(n int64) Option {
	return func(p *Pipeline) {
		p.maxBody = n
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithObserver registers a dispatch observer.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		p.observer = o
	}
}

// NewPipeline creates a pipeline in front of app.
func NewPipeline(app handler.Handler, opts ...Option) (*Pipeline, error) {
	if app == nil {
		return nil, ErrNilApplication
	}
	p := &Pipeline{
		app:    app,
		appLoc: handlerLocation(app),
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Dispatch answers r on w. It never panics and never returns an error:
// failures become a logged 500 response.
func (p *Pipeline) Dispatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ww := newResponseWriter(w)

	outcome, err := p.run(ww, r)
	if err != nil {
		p.fail(ww, r, err)
		outcome = OutcomeFailure
	}

	status := ww.Status()
	if status == 0 {
		status = http.StatusOK
	}
	if p.observer != nil {
		p.observer.ObserveDispatch(outcome, status, time.Since(start))
	}
	p.logger.DebugContext(r.Context(), "request dispatched",
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
		logger.StatusCode(status),
		logger.Result(outcome),
		logger.Elapsed(start))
}

func (p *Pipeline) run(w *responseWriter, r *http.Request) (outcome string, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &panicError{value: v, stack: debug.Stack()}
		}
	}()

	for _, g := range p.gates {
		if g.Server.TryServe(w, r) {
			return g.Name, nil
		}
	}

	resp, err := p.invoke(r)
	if err != nil {
		return "", err
	}

	if err := translate(w, resp); err != nil {
		p.logger.DebugContext(r.Context(), "response write failed",
			logger.Path(r.URL.Path),
			logger.Error(err))
	}
	if resp.Location() != "" {
		return OutcomeRedirect, nil
	}

	if p.cache != nil {
		p.cache.Save(r.Context(), r, resp)
	}
	return OutcomeApplication, nil
}

// invoke adapts r and calls the application, folding every failure mode into
// the returned error.
func (p *Pipeline) invoke(r *http.Request) (resp *handler.Response, err error) {
	req, err := Adapt(r, p.maxBody)
	if err != nil {
		return nil, err
	}

	defer func() {
		if v := recover(); v != nil {
			resp = nil
			err = fmt.Errorf("%w: %w", ErrHandlerFailure, &panicError{value: v, stack: debug.Stack()})
		}
	}()

	resp, err = p.app.Handle(r.Context(), req)
	switch {
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrHandlerFailure, err)
	case resp == nil:
		return nil, fmt.Errorf("%w: nil response", ErrHandlerFailure)
	case resp.Status != 0 && (resp.Status < 100 || resp.Status > 999):
		return nil, fmt.Errorf("%w: invalid status %d", ErrHandlerFailure, resp.Status)
	}
	return resp, nil
}

// fail logs err once and writes the generic 500 response when possible.
func (p *Pipeline) fail(w *responseWriter, r *http.Request, err error) {
	d := describe(err)
	if d.location == "" && errors.Is(err, ErrHandlerFailure) {
		d.location = p.appLoc
	}
	if d.location == "" {
		d.location = "unknown"
	}

	attrs := []any{
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
		logger.Key("error_type", d.typ),
		logger.Key("error_code", d.code),
		logger.Key("error_message", err.Error()),
		logger.Key("error_location", d.location),
		logger.StackTrace(d.stack),
	}
	if w.Written() {
		attrs = append(attrs, logger.Key("response_written", true))
	}
	p.logger.ErrorContext(r.Context(), "unhandled dispatch failure", attrs...)

	if w.Written() {
		return
	}
	WriteFailure(w)
}

// WriteFailure writes the generic 500 response.
func WriteFailure(w http.ResponseWriter) {
	w.Header().Del(handler.HeaderLocation)
	w.Header().Set(handler.HeaderContentType, "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(FailureBody))
}

type failureDetail struct {
	typ      string
	code     int
	location string
	stack    []byte
}

// coder is implemented by errors carrying a numeric code.
type coder interface {
	Code() int
}

type statusCoder interface {
	StatusCode() int
}

// describe extracts log fields from err. Returned errors carry no origin,
// so location is left empty for them and the caller substitutes the best
// place it knows.
func describe(err error) failureDetail {
	var d failureDetail

	var pe PanicError
	if errors.As(err, &pe) {
		d.typ = fmt.Sprintf("%T", pe.Value())
		d.stack = pe.Stack()
		d.location = panicLocation(d.stack)
	} else {
		d.typ = fmt.Sprintf("%T", rootCause(err))
		d.stack = debug.Stack()
	}

	var c coder
	var sc statusCoder
	switch {
	case errors.As(err, &c):
		d.code = c.Code()
	case errors.As(err, &sc):
		d.code = sc.StatusCode()
	}
	return d
}

// rootCause follows wrapping to the innermost error. For errors wrapping
// several others the last one is followed, matching fmt.Errorf("%w: %w",
// sentinel, cause).
func rootCause(err error) error {
	for {
		var next error
		switch u := err.(type) {
		case interface{ Unwrap() error }:
			next = u.Unwrap()
		case interface{ Unwrap() []error }:
			if errs := u.Unwrap(); len(errs) > 0 {
				next = errs[len(errs)-1]
			}
		}
		if next == nil {
			return err
		}
		err = next
	}
}

// panicLocation extracts "file:line" of the frame that called panic from a
// debug.Stack trace.
func panicLocation(stack []byte) string {
	lines := strings.Split(string(stack), "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, "panic(") {
			continue
		}
		// panic(...) / runtime path / caller func / caller file:line
		if i+3 >= len(lines) {
			break
		}
		loc := strings.TrimSpace(lines[i+3])
		if idx := strings.LastIndex(loc, " +0x"); idx > 0 {
			loc = loc[:idx]
		}
		return loc
	}
	return "unknown"
}

// handlerLocation reports file:line of the application's Handle entry point.
func handlerLocation(app handler.Handler) string {
	var pc uintptr
	if f, ok := app.(handler.HandlerFunc); ok {
		pc = reflect.ValueOf(f).Pointer()
	} else if m, ok := reflect.TypeOf(app).MethodByName("Handle"); ok {
		pc = m.Func.Pointer()
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}
	file, line := fn.FileLine(fn.Entry())
	return fmt.Sprintf("%s:%d", file, line)
}
