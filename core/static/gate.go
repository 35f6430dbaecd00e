package static

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/prefork/core/logger"
)

// Gate serves existing files under a document root.
type Gate struct {
	root      string
	locations []string
	logger    *slog.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithLocations restricts the gate to request paths under the given
// prefixes. Without locations every path is eligible.
func WithLocations(prefixes ...string) Option {
	return func(g *Gate) {
		for _, p := range prefixes {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if !strings.HasPrefix(p, "/") {
				p = "/" + p
			}
			g.locations = append(g.locations, p)
		}
	}
}

// WithLogger sets the gate logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGate creates a gate for root, which must be an existing directory.
func NewGate(root string, opts ...Option) (*Gate, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := validateStartup(abs); err != nil {
		return nil, err
	}
	// Resolve the root itself so symlinked roots compare correctly below.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	g := &Gate{root: abs, logger: logger.Discard()}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Root returns the absolute document root.
func (g *Gate) Root() string {
	return g.root
}

// TryServe writes the file for r and returns true, or returns false
// without touching w.
func (g *Gate) TryServe(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}

	urlPath := path.Clean("/" + r.URL.Path)
	if !g.inLocations(urlPath) {
		return false
	}

	full, ok := g.resolve(urlPath)
	if !ok {
		return false
	}

	f, err := os.Open(full)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	g.logger.DebugContext(r.Context(), "serving static file",
		logger.Path(urlPath),
		logger.Key("file", full))

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}

func (g *Gate) inLocations(urlPath string) bool {
	if len(g.locations) == 0 {
		return true
	}
	for _, loc := range g.locations {
		if urlPath == loc || strings.HasPrefix(urlPath, strings.TrimSuffix(loc, "/")+"/") {
			return true
		}
	}
	return false
}

// resolve maps urlPath onto a regular file inside the root.
func (g *Gate) resolve(urlPath string) (string, bool) {
	full := filepath.Join(g.root, filepath.FromSlash(urlPath))
	if err := validatePathSecurity(g.root, full); err != nil {
		return "", false
	}

	target, err := filepath.EvalSymlinks(full)
	if err != nil {
		return "", false
	}
	if err := validatePathSecurity(g.root, target); err != nil {
		g.logger.Warn("static path escapes document root",
			logger.Path(urlPath),
			logger.Key("target", target))
		return "", false
	}

	info, err := os.Stat(target)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return target, true
}
