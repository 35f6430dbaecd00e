package pidfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/prefork/core/pidfile"
)

func TestMarker(t *testing.T) {
	t.Parallel()

	t.Run("missing file is not running", func(t *testing.T) {
		t.Parallel()
		m := pidfile.New(filepath.Join(t.TempDir(), "pid"))
		assert.False(t, m.IsRunning())

		pid, err := m.PID()
		require.NoError(t, err)
		assert.Zero(t, pid)
	})

	t.Run("running then stopped", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "logs", "pid")
		m := pidfile.New(path)

		require.NoError(t, m.MarkRunning(4242))
		assert.True(t, m.IsRunning())
		pid, err := m.PID()
		require.NoError(t, err)
		assert.Equal(t, 4242, pid)

		require.NoError(t, m.MarkStopped())
		assert.False(t, m.IsRunning())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("any non-empty content counts as running", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "pid")
		require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

		m := pidfile.New(path)
		assert.True(t, m.IsRunning())
		_, err := m.PID()
		assert.Error(t, err)
	})

	t.Run("default path", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, pidfile.DefaultPath, pidfile.New("").Path())
	})
}
