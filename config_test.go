package prefork_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/prefork"
	"github.com/dmitrymomot/prefork/core/pidfile"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefork.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9501
  name: blog
  pid_file: run/blog.pid
  options:
    worker_num: 4
    task_worker_num: 2
    max_request: 1000
    enable_static_handler: true
    document_root: public
    static_handler_locations: [/assets, /favicon.ico]
    package_max_length: 2097152
    read_timeout: 5s
cache:
  switch: 1
  driver: sqlite
  ttl: 1m
  ignore_params: [utm_source]
  sqlite:
    dsn: storage/cache.db
log:
  level: debug
  format: json
`)
		cfg, err := prefork.LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "blog", cfg.Server.Name)
		assert.Equal(t, "127.0.0.1:9501", cfg.Addr())
		assert.Equal(t, "run/blog.pid", cfg.Server.PidFile)
		assert.Equal(t, 4, cfg.Server.Options.WorkerNum)
		assert.Equal(t, 2, cfg.Server.Options.TaskWorkerNum)
		assert.Equal(t, 1000, cfg.Server.Options.MaxRequest)
		assert.True(t, cfg.Server.Options.EnableStaticHandler)
		assert.Equal(t, []string{"/assets", "/favicon.ico"}, cfg.Server.Options.StaticHandlerLocations)
		assert.Equal(t, int64(2<<20), cfg.Server.Options.PackageMaxLength)
		assert.Equal(t, 5*time.Second, cfg.Server.Options.ReadTimeout)
		assert.True(t, cfg.CacheEnabled())
		assert.Equal(t, prefork.DriverSQLite, cfg.Cache.Driver)
		assert.Equal(t, time.Minute, cfg.Cache.TTL)
		assert.Equal(t, []string{"GET"}, cfg.Cache.Methods)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("defaults fill omitted keys", func(t *testing.T) {
		cfg, err := prefork.LoadConfig(writeConfig(t, "server:\n  name: app\n  port: 8000\n"))
		require.NoError(t, err)
		assert.Equal(t, pidfile.DefaultPath, cfg.Server.PidFile)
		assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
		assert.False(t, cfg.CacheEnabled())
		assert.Equal(t, prefork.DriverMemory, cfg.Cache.Driver)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("PREFORK_SERVER_PORT", "9999")
		t.Setenv("PREFORK_CACHE_SWITCH", "1")
		cfg, err := prefork.LoadConfig(writeConfig(t, "server:\n  name: app\n  port: 8000\n"))
		require.NoError(t, err)
		assert.Equal(t, 9999, cfg.Server.Port)
		assert.True(t, cfg.CacheEnabled())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := prefork.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, prefork.ErrConfigurationMissing)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := prefork.LoadConfig(writeConfig(t, "server:\n  port: 8000\n"))
		assert.ErrorIs(t, err, prefork.ErrConfigurationMissing)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() prefork.Config {
		cfg := prefork.DefaultConfig()
		cfg.Server.Name = "app"
		cfg.Server.Port = 8080
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*prefork.Config)
		err    error
	}{
		{"valid", func(*prefork.Config) {}, nil},
		{"missing port", func(c *prefork.Config) { c.Server.Port = 0 }, prefork.ErrConfigurationMissing},
		{"port out of range", func(c *prefork.Config) { c.Server.Port = 70000 }, prefork.ErrInvalidConfig},
		{"negative workers", func(c *prefork.Config) { c.Server.Options.WorkerNum = -1 }, prefork.ErrInvalidConfig},
		{"static without root", func(c *prefork.Config) {
			c.Server.Options.EnableStaticHandler = true
			c.Server.Options.DocumentRoot = ""
		}, prefork.ErrConfigurationMissing},
		{"unknown driver", func(c *prefork.Config) {
			c.Cache.Switch = 1
			c.Cache.Driver = "memcached"
		}, prefork.ErrUnknownCacheDriver},
		{"unknown driver ignored while cache is off", func(c *prefork.Config) {
			c.Cache.Driver = "memcached"
		}, nil},
		{"redis without url", func(c *prefork.Config) {
			c.Cache.Switch = 1
			c.Cache.Driver = prefork.DriverRedis
		}, prefork.ErrConfigurationMissing},
		{"leveldb without path", func(c *prefork.Config) {
			c.Cache.Switch = 1
			c.Cache.Driver = prefork.DriverLevelDB
		}, prefork.ErrConfigurationMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
