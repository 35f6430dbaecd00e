package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/prefork/core/config"
)

type testConfig struct {
	Server struct {
		Host    string        `yaml:"host" env:"CFGTEST_SERVER_HOST"`
		Port    int           `yaml:"port" env:"CFGTEST_SERVER_PORT"`
		Timeout time.Duration `yaml:"timeout" env:"CFGTEST_SERVER_TIMEOUT"`
	} `yaml:"server"`
	Tags []string `yaml:"tags" env:"CFGTEST_TAGS"`
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Run("decodes yaml over defaults", func(t *testing.T) {
		path := writeFile(t, "server:\n  port: 9501\n  timeout: 5s\ntags: [a, b]\n")

		var cfg testConfig
		cfg.Server.Host = "127.0.0.1"
		require.NoError(t, config.LoadFile(path, &cfg))

		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
		assert.Equal(t, 9501, cfg.Server.Port)
		assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
		assert.Equal(t, []string{"a", "b"}, cfg.Tags)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("CFGTEST_SERVER_PORT", "7000")
		path := writeFile(t, "server:\n  port: 9501\n")

		var cfg testConfig
		require.NoError(t, config.LoadFile(path, &cfg))

		assert.Equal(t, 7000, cfg.Server.Port)
	})

	t.Run("missing file", func(t *testing.T) {
		var cfg testConfig
		err := config.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), &cfg)

		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrConfigurationMissing)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeFile(t, "server: [unclosed\n")

		var cfg testConfig
		err := config.LoadFile(path, &cfg)

		assert.ErrorIs(t, err, config.ErrParse)
	})

	t.Run("rejects non-pointer target", func(t *testing.T) {
		path := writeFile(t, "server:\n  port: 1\n")

		err := config.LoadFile(path, testConfig{})

		assert.ErrorIs(t, err, config.ErrInvalidTarget)
	})
}

func TestLoad(t *testing.T) {
	t.Setenv("CFGTEST_SERVER_HOST", "example.internal")

	var cfg testConfig
	cfg.Server.Port = 8080
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "example.internal", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port, "unset variables keep existing values")

	assert.Panics(t, func() { config.MustLoad(nil) })
}
