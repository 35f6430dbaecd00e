package cache

import (
	"context"
	"time"

	"github.com/dmitrymomot/prefork/core/handler"
)

// Store persists response snapshots by fingerprint.
// A ttl of zero means the entry never expires.
type Store interface {
	Get(ctx context.Context, key string) (*handler.Response, bool, error)
	Set(ctx context.Context, key string, resp *handler.Response, ttl time.Duration) error
}
