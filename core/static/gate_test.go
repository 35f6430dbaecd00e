package static_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/prefork/core/static"
)

func setupRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "assets", "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "robots.txt"), []byte("User-agent: *"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "assets", "css", "app.css"), []byte("body{}"), 0o644))
	return root
}

func TestNewGate(t *testing.T) {
	t.Parallel()

	_, err := static.NewGate(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, static.ErrRootNotFound)

	file := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = static.NewGate(file)
	assert.ErrorIs(t, err, static.ErrRootNotDir)
}

func TestGateTryServe(t *testing.T) {
	t.Parallel()

	root := setupRoot(t)
	gate, err := static.NewGate(root)
	require.NoError(t, err)

	t.Run("serves existing file", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		ok := gate.TryServe(w, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))

		assert.True(t, ok)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "User-agent: *", w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	})

	t.Run("head has no body", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		assert.True(t, gate.TryServe(w, httptest.NewRequest(http.MethodHead, "/assets/css/app.css", nil)))
		assert.Empty(t, w.Body.String())
	})

	passes := []struct {
		name   string
		method string
		target string
	}{
		{"missing file", http.MethodGet, "/nope.txt"},
		{"directory", http.MethodGet, "/assets"},
		{"root", http.MethodGet, "/"},
		{"post", http.MethodPost, "/robots.txt"},
		{"traversal", http.MethodGet, "/../../etc/passwd"},
	}
	for _, tt := range passes {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			ok := gate.TryServe(w, httptest.NewRequest(tt.method, tt.target, nil))

			assert.False(t, ok)
			assert.Equal(t, 0, w.Body.Len())
			assert.Empty(t, w.Header())
		})
	}
}

func TestGateLocations(t *testing.T) {
	t.Parallel()

	gate, err := static.NewGate(setupRoot(t), static.WithLocations("assets/"))
	require.NoError(t, err)

	assert.True(t, gate.TryServe(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/assets/css/app.css", nil)))
	assert.False(t, gate.TryServe(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/robots.txt", nil)))
}

func TestGateSymlinkEscape(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("secret"), 0o644))

	root := setupRoot(t)
	if err := os.Symlink(secret, filepath.Join(root, "leak.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	gate, err := static.NewGate(root)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	assert.False(t, gate.TryServe(w, httptest.NewRequest(http.MethodGet, "/leak.txt", nil)))
	assert.Equal(t, 0, w.Body.Len())
}
