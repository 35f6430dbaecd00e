package prefork

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/prefork/core/cache"
	"github.com/dmitrymomot/prefork/core/health"
	cacheleveldb "github.com/dmitrymomot/prefork/integration/cache/leveldb"
	cacheredis "github.com/dmitrymomot/prefork/integration/cache/redis"
	cachesqlite "github.com/dmitrymomot/prefork/integration/cache/sqlite"
	"github.com/dmitrymomot/prefork/integration/database/redis"
)

// openedStore is a cache store with its lifecycle helpers.
type openedStore struct {
	store cache.Store
	check health.Check
	close func() error
}

func noClose() error { return nil }

// openStore builds the store selected by cache.driver.
func openStore(ctx context.Context, cfg CacheConfig) (openedStore, error) {
	switch cfg.Driver {
	case DriverMemory, "":
		return openedStore{store: cache.NewMemory(cfg.Capacity), close: noClose}, nil

	case DriverRedis:
		client, err := redis.Connect(ctx, redis.Config{ConnectionURL: cfg.Redis.URL})
		if err != nil {
			return openedStore{}, fmt.Errorf("%w: %w", ErrCacheStore, err)
		}
		var opts []cacheredis.Option
		if cfg.Redis.Prefix != "" {
			opts = append(opts, cacheredis.WithPrefix(cfg.Redis.Prefix))
		}
		return openedStore{
			store: cacheredis.New(client, opts...),
			check: redis.Healthcheck(client),
			close: client.Close,
		}, nil

	case DriverLevelDB:
		s, err := cacheleveldb.Open(cfg.LevelDB.Path)
		if err != nil {
			return openedStore{}, fmt.Errorf("%w: %w", ErrCacheStore, err)
		}
		return openedStore{store: s, check: s.Ping, close: s.Close}, nil

	case DriverSQLite:
		s, err := cachesqlite.Open(ctx, cfg.SQLite.DSN)
		if err != nil {
			return openedStore{}, fmt.Errorf("%w: %w", ErrCacheStore, err)
		}
		return openedStore{store: s, check: s.Ping, close: s.Close}, nil
	}

	return openedStore{}, fmt.Errorf("%w: %q", ErrUnknownCacheDriver, cfg.Driver)
}
