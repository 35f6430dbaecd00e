package cache_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/prefork/core/cache"
	"github.com/dmitrymomot/prefork/core/handler"
)

func TestEntryCodec(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	resp := handler.Text(http.StatusOK, "cached")
	resp.Header.Set("X-Custom", "1")

	data, err := cache.EncodeEntry(cache.NewEntry(resp, time.Hour, now))
	require.NoError(t, err)

	e, err := cache.DecodeEntry(data)
	require.NoError(t, err)

	assert.True(t, resp.Equal(e.Response()))
	assert.False(t, e.Expired(now.Add(59*time.Minute)))
	assert.True(t, e.Expired(now.Add(time.Hour)))
	assert.False(t, cache.NewEntry(resp, 0, now).Expired(now.Add(1000*time.Hour)))

	_, err = cache.DecodeEntry([]byte("not gob"))
	assert.ErrorIs(t, err, cache.ErrDecodeEntry)
}
