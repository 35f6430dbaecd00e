package dispatch

import (
	"net/http"

	"github.com/dmitrymomot/prefork/core/cache"
)

// Outcome names how a request was answered.
const (
	OutcomeStatic      = "static"
	OutcomeCacheHit    = "cache_hit"
	OutcomeApplication = "application"
	OutcomeRedirect    = "redirect"
	OutcomeFailure     = "failure"
)

// TryServer serves a request completely and returns true, or writes nothing
// and returns false.
type TryServer interface {
	TryServe(w http.ResponseWriter, r *http.Request) bool
}

// TryServerFunc adapts a function to TryServer.
type TryServerFunc func(w http.ResponseWriter, r *http.Request) bool

func (f TryServerFunc) TryServe(w http.ResponseWriter, r *http.Request) bool {
	return f(w, r)
}

// Gate is a named link of the pre-application chain.
type Gate struct {
	Name   string
	Server TryServer
}

// cacheServer replays cache hits.
type cacheServer struct {
	gate *cache.Gate
}

func (c cacheServer) TryServe(w http.ResponseWriter, r *http.Request) bool {
	resp, ok := c.gate.Lookup(r.Context(), r)
	if !ok {
		return false
	}
	_ = writeCached(w, resp)
	return true
}
