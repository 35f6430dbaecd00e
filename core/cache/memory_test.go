package cache_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/prefork/core/cache"
	"github.com/dmitrymomot/prefork/core/handler"
)

func TestMemory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stores clones", func(t *testing.T) {
		t.Parallel()
		m := cache.NewMemory(4)
		resp := handler.Text(http.StatusOK, "hello")
		require.NoError(t, m.Set(ctx, "k", resp, 0))

		resp.Body[0] = 'J'
		got, ok, err := m.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "hello", string(got.Body))

		got.Body[0] = 'Y'
		again, _, _ := m.Get(ctx, "k")
		assert.Equal(t, "hello", string(again.Body))
	})

	t.Run("expires entries with ttl", func(t *testing.T) {
		t.Parallel()
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		m := cache.NewMemory(4, cache.WithClock(func() time.Time { return now }))

		require.NoError(t, m.Set(ctx, "k", handler.Text(http.StatusOK, "x"), time.Minute))
		_, ok, _ := m.Get(ctx, "k")
		assert.True(t, ok)

		now = now.Add(time.Minute)
		_, ok, _ = m.Get(ctx, "k")
		assert.False(t, ok)
		assert.Zero(t, m.Len())
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		t.Parallel()
		now := time.Now()
		m := cache.NewMemory(4, cache.WithClock(func() time.Time { return now }))
		require.NoError(t, m.Set(ctx, "k", handler.Text(http.StatusOK, "x"), 0))

		now = now.Add(24 * 365 * time.Hour)
		_, ok, _ := m.Get(ctx, "k")
		assert.True(t, ok)
	})

	t.Run("rejects nil response", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, cache.NewMemory(1).Set(ctx, "k", nil, 0), cache.ErrNilResponse)
	})

	t.Run("purge", func(t *testing.T) {
		t.Parallel()
		m := cache.NewMemory(0)
		require.NoError(t, m.Set(ctx, "k", handler.Text(http.StatusOK, "x"), 0))
		m.Purge()
		_, ok, _ := m.Get(ctx, "k")
		assert.False(t, ok)
	})
}
