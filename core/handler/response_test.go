package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/prefork/core/handler"
)

func TestResponse(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		resp, err := handler.JSON(http.StatusCreated, map[string]int{"id": 1})
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, resp.Status)
		assert.Equal(t, `{"id":1}`, string(resp.Body))
		assert.Equal(t, "application/json; charset=utf-8", resp.ContentType())
		assert.Empty(t, resp.Location())
	})

	t.Run("json encode failure", func(t *testing.T) {
		t.Parallel()
		_, err := handler.JSON(http.StatusOK, make(chan int))
		assert.Error(t, err)
	})

	t.Run("redirect", func(t *testing.T) {
		t.Parallel()
		resp := handler.Redirect("/new", http.StatusFound)
		assert.Equal(t, "/new", resp.Location())
		assert.Empty(t, resp.Body)
	})

	t.Run("nil safe accessors", func(t *testing.T) {
		t.Parallel()
		var resp *handler.Response
		assert.Empty(t, resp.Location())
		assert.Empty(t, resp.ContentType())
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.Nil(t, resp.Clone())
	})

	t.Run("clone is deep", func(t *testing.T) {
		t.Parallel()
		orig := handler.Text(http.StatusOK, "hi")
		orig.Header.Add("X-Tag", "a")
		c := orig.Clone()

		c.Body[0] = 'H'
		c.Header.Add("X-Tag", "b")

		assert.Equal(t, "hi", string(orig.Body))
		assert.Equal(t, []string{"a"}, orig.Header.Values("X-Tag"))
		assert.False(t, orig.Equal(c))
		assert.True(t, orig.Equal(orig.Clone()))
	})
}
