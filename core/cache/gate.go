package cache

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/prefork/core/handler"
	"github.com/dmitrymomot/prefork/core/logger"
)

// Gate consults and fills a Store on behalf of the dispatcher.
type Gate struct {
	store   Store
	fp      *Fingerprinter
	ttl     time.Duration
	methods map[string]struct{}
	logger  *slog.Logger
}

// GateOption configures a Gate.
type GateOption func(*gateConfig)

type gateConfig struct {
	ttl          time.Duration
	methods      []string
	ignoreParams []string
	varyHeaders  []string
	logger       *slog.Logger
}

// WithTTL sets the lifetime of stored entries. Zero keeps entries forever.
func WithTTL(ttl time.Duration) GateOption {
	return func(c *gateConfig) {
		if ttl >= 0 {
			c.ttl = ttl
		}
	}
}

// WithMethods sets the cacheable request methods. Default: GET.
func WithMethods(methods ...string) GateOption {
	return func(c *gateConfig) {
		if len(methods) > 0 {
			c.methods = methods
		}
	}
}

// WithIgnoreParams excludes query parameters from the fingerprint.
func WithIgnoreParams(params ...string) GateOption {
	return func(c *gateConfig) {
		c.ignoreParams = append(c.ignoreParams, params...)
	}
}

// WithVaryHeaders mixes request header values into the fingerprint.
func WithVaryHeaders(headers ...string) GateOption {
	return func(c *gateConfig) {
		c.varyHeaders = append(c.varyHeaders, headers...)
	}
}

// WithLogger sets the logger used for store failures.
func WithLogger(l *slog.Logger) GateOption {
	return func(c *gateConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewGate creates a gate over store.
func NewGate(store Store, opts ...GateOption) (*Gate, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	cfg := &gateConfig{
		methods: []string{http.MethodGet},
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	g := &Gate{
		store:   store,
		fp:      NewFingerprinter(cfg.ignoreParams, cfg.varyHeaders),
		ttl:     cfg.ttl,
		methods: make(map[string]struct{}, len(cfg.methods)),
		logger:  cfg.logger,
	}
	for _, m := range cfg.methods {
		g.methods[strings.ToUpper(m)] = struct{}{}
	}
	return g, nil
}

// Key returns the fingerprint used for r.
func (g *Gate) Key(r *http.Request) string {
	return g.fp.Fingerprint(r)
}

// Lookup returns the stored response for r. Store failures are logged and
// treated as a miss.
func (g *Gate) Lookup(ctx context.Context, r *http.Request) (*handler.Response, bool) {
	if !g.cacheableRequest(r) {
		return nil, false
	}

	key := g.fp.Fingerprint(r)
	resp, ok, err := g.store.Get(ctx, key)
	if err != nil {
		g.logger.WarnContext(ctx, "cache lookup failed",
			logger.Key("cache_key", key),
			logger.Path(r.URL.Path),
			logger.Error(err))
		return nil, false
	}
	if !ok || resp == nil {
		return nil, false
	}
	return resp, true
}

// Save stores resp under r's fingerprint when both are cacheable and reports
// whether it did.
func (g *Gate) Save(ctx context.Context, r *http.Request, resp *handler.Response) bool {
	if !g.cacheableRequest(r) || !Cacheable(resp) {
		return false
	}

	key := g.fp.Fingerprint(r)
	if err := g.store.Set(ctx, key, resp, g.ttl); err != nil {
		g.logger.WarnContext(ctx, "cache store failed",
			logger.Key("cache_key", key),
			logger.Path(r.URL.Path),
			logger.Error(err))
		return false
	}
	return true
}

func (g *Gate) cacheableRequest(r *http.Request) bool {
	if r == nil || r.URL == nil {
		return false
	}
	_, ok := g.methods[r.Method]
	return ok
}

// Cacheable reports whether a response may be stored: status 200, not a
// redirect, no Set-Cookie, and not marked no-store or no-cache.
func Cacheable(resp *handler.Response) bool {
	if resp == nil || resp.StatusCode() != http.StatusOK || resp.Location() != "" {
		return false
	}
	if resp.Header.Get("Set-Cookie") != "" {
		return false
	}
	cc := strings.ToLower(resp.Header.Get("Cache-Control"))
	return !strings.Contains(cc, "no-store") && !strings.Contains(cc, "no-cache")
}
