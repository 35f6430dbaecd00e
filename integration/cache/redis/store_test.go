package redis_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/prefork/core/cache"
	"github.com/dmitrymomot/prefork/core/handler"
	"github.com/dmitrymomot/prefork/integration/cache/redis"
)

func setup(t *testing.T) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.New(client, redis.WithPrefix("test:")), mr
}

func TestStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		s, mr := setup(t)

		resp := handler.Text(http.StatusOK, "from redis")
		resp.Header.Set("X-Shard", "a")
		require.NoError(t, s.Set(ctx, "k1", resp, 0))

		got, ok, err := s.Get(ctx, "k1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, resp.Equal(got))
		assert.True(t, mr.Exists("test:k1"))
		assert.Zero(t, mr.TTL("test:k1"))
		assert.NoError(t, s.Ping(ctx))
	})

	t.Run("miss", func(t *testing.T) {
		t.Parallel()
		s, _ := setup(t)
		_, ok, err := s.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ttl expires", func(t *testing.T) {
		t.Parallel()
		s, mr := setup(t)
		require.NoError(t, s.Set(ctx, "k", handler.Text(http.StatusOK, "x"), time.Minute))
		assert.Equal(t, time.Minute, mr.TTL("test:k"))

		mr.FastForward(2 * time.Minute)
		_, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("corrupt entry", func(t *testing.T) {
		t.Parallel()
		s, mr := setup(t)
		require.NoError(t, mr.Set("test:bad", "garbage"))
		_, _, err := s.Get(ctx, "bad")
		assert.ErrorIs(t, err, cache.ErrDecodeEntry)
	})

	t.Run("server down", func(t *testing.T) {
		t.Parallel()
		s, mr := setup(t)
		mr.Close()
		_, _, err := s.Get(ctx, "k")
		assert.Error(t, err)
		assert.Error(t, s.Set(ctx, "k", handler.Text(http.StatusOK, "x"), 0))
	})

	t.Run("usable behind gate", func(t *testing.T) {
		t.Parallel()
		s, _ := setup(t)
		var _ cache.Store = s
		gate, err := cache.NewGate(s)
		require.NoError(t, err)
		assert.NotNil(t, gate)
	})
}
