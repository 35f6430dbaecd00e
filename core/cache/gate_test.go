package cache_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/prefork/core/cache"
	"github.com/dmitrymomot/prefork/core/handler"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) (*handler.Response, bool, error) {
	return nil, false, errors.New("store down")
}

func (failingStore) Set(context.Context, string, *handler.Response, time.Duration) error {
	return errors.New("store down")
}

func TestGate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("nil store", func(t *testing.T) {
		t.Parallel()
		_, err := cache.NewGate(nil)
		assert.ErrorIs(t, err, cache.ErrNilStore)
	})

	t.Run("miss then hit", func(t *testing.T) {
		t.Parallel()
		store := cache.NewMemory(8)
		gate, err := cache.NewGate(store)
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/users?page=1", nil)
		_, ok := gate.Lookup(ctx, r)
		assert.False(t, ok)
		assert.Zero(t, store.Len(), "lookup must not write")

		assert.True(t, gate.Save(ctx, r, handler.Text(http.StatusOK, "list")))

		resp, ok := gate.Lookup(ctx, httptest.NewRequest(http.MethodGet, "/users?page=1", nil))
		require.True(t, ok)
		assert.Equal(t, "list", string(resp.Body))
	})

	t.Run("save skips uncacheable", func(t *testing.T) {
		t.Parallel()
		gate, err := cache.NewGate(cache.NewMemory(8))
		require.NoError(t, err)

		get := httptest.NewRequest(http.MethodGet, "/", nil)
		post := httptest.NewRequest(http.MethodPost, "/", nil)

		noStore := handler.Text(http.StatusOK, "x")
		noStore.Header.Set("Cache-Control", "private, no-store")

		assert.False(t, gate.Save(ctx, post, handler.Text(http.StatusOK, "x")))
		assert.False(t, gate.Save(ctx, get, handler.Text(http.StatusNotFound, "x")))
		assert.False(t, gate.Save(ctx, get, handler.Redirect("/b", http.StatusOK)))
		assert.False(t, gate.Save(ctx, get, noStore))
		assert.False(t, gate.Save(ctx, get, nil))
	})

	t.Run("configured methods", func(t *testing.T) {
		t.Parallel()
		gate, err := cache.NewGate(cache.NewMemory(8), cache.WithMethods("get", "head"))
		require.NoError(t, err)

		head := httptest.NewRequest(http.MethodHead, "/", nil)
		assert.True(t, gate.Save(ctx, head, handler.Text(http.StatusOK, "")))
		_, ok := gate.Lookup(ctx, head)
		assert.True(t, ok)
	})

	t.Run("store errors are misses", func(t *testing.T) {
		t.Parallel()
		gate, err := cache.NewGate(failingStore{})
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		_, ok := gate.Lookup(ctx, r)
		assert.False(t, ok)
		assert.False(t, gate.Save(ctx, r, handler.Text(http.StatusOK, "x")))
	})

	t.Run("ttl is passed to store", func(t *testing.T) {
		t.Parallel()
		now := time.Now()
		store := cache.NewMemory(8, cache.WithClock(func() time.Time { return now }))
		gate, err := cache.NewGate(store, cache.WithTTL(time.Second))
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		require.True(t, gate.Save(ctx, r, handler.Text(http.StatusOK, "x")))

		now = now.Add(2 * time.Second)
		_, ok := gate.Lookup(ctx, r)
		assert.False(t, ok)
	})

	t.Run("cacheable", func(t *testing.T) {
		t.Parallel()
		assert.True(t, cache.Cacheable(&handler.Response{}))
		noCache := handler.Text(http.StatusOK, "")
		noCache.Header.Set("Cache-Control", "No-Cache")
		assert.False(t, cache.Cacheable(noCache))
		cookie := handler.Text(http.StatusOK, "")
		cookie.Header.Set("Set-Cookie", "sid=1")
		assert.False(t, cache.Cacheable(cookie))
	})
}
