package prefork

import (
	"fmt"
	"net"
	"runtime"
	"strconv"
	"time"

	"github.com/dmitrymomot/prefork/core/cache"
	"github.com/dmitrymomot/prefork/core/config"
	"github.com/dmitrymomot/prefork/core/pidfile"
	"github.com/dmitrymomot/prefork/core/server"
)

// Cache drivers.
const (
	DriverMemory  = "memory"
	DriverRedis   = "redis"
	DriverLevelDB = "leveldb"
	DriverSQLite  = "sqlite"
)

// Config is the server configuration. It is read from YAML and every key can
// be overridden with a PREFORK_* environment variable.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Cache  CacheConfig  `yaml:"cache"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Host    string        `yaml:"host" env:"PREFORK_SERVER_HOST"`
	Port    int           `yaml:"port" env:"PREFORK_SERVER_PORT"`
	Name    string        `yaml:"name" env:"PREFORK_SERVER_NAME"`
	PidFile string        `yaml:"pid_file" env:"PREFORK_SERVER_PID_FILE"`
	Options ServerOptions `yaml:"options"`
}

type ServerOptions struct {
	WorkerNum     int `yaml:"worker_num" env:"PREFORK_WORKER_NUM"`
	TaskWorkerNum int `yaml:"task_worker_num" env:"PREFORK_TASK_WORKER_NUM"`
	MaxRequest    int `yaml:"max_request" env:"PREFORK_MAX_REQUEST"`

	EnableStaticHandler    bool     `yaml:"enable_static_handler" env:"PREFORK_ENABLE_STATIC_HANDLER"`
	DocumentRoot           string   `yaml:"document_root" env:"PREFORK_DOCUMENT_ROOT"`
	StaticHandlerLocations []string `yaml:"static_handler_locations" env:"PREFORK_STATIC_HANDLER_LOCATIONS" envSeparator:","`

	PackageMaxLength int64         `yaml:"package_max_length" env:"PREFORK_PACKAGE_MAX_LENGTH"`
	ReadTimeout      time.Duration `yaml:"read_timeout" env:"PREFORK_READ_TIMEOUT"`
	WriteTimeout     time.Duration `yaml:"write_timeout" env:"PREFORK_WRITE_TIMEOUT"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout" env:"PREFORK_SHUTDOWN_TIMEOUT"`

	MetricsAddr string `yaml:"metrics_addr" env:"PREFORK_METRICS_ADDR"`
}

type CacheConfig struct {
	// Switch enables the response cache when set to 1.
	Switch       int           `yaml:"switch" env:"PREFORK_CACHE_SWITCH"`
	Driver       string        `yaml:"driver" env:"PREFORK_CACHE_DRIVER"`
	TTL          time.Duration `yaml:"ttl" env:"PREFORK_CACHE_TTL"`
	Capacity     int           `yaml:"capacity" env:"PREFORK_CACHE_CAPACITY"`
	Methods      []string      `yaml:"methods" env:"PREFORK_CACHE_METHODS" envSeparator:","`
	IgnoreParams []string      `yaml:"ignore_params" env:"PREFORK_CACHE_IGNORE_PARAMS" envSeparator:","`
	VaryHeaders  []string      `yaml:"vary_headers" env:"PREFORK_CACHE_VARY_HEADERS" envSeparator:","`

	Redis   RedisCacheConfig   `yaml:"redis"`
	LevelDB LevelDBCacheConfig `yaml:"leveldb"`
	SQLite  SQLiteCacheConfig  `yaml:"sqlite"`
}

type RedisCacheConfig struct {
	URL    string `yaml:"url" env:"PREFORK_CACHE_REDIS_URL"`
	Prefix string `yaml:"prefix" env:"PREFORK_CACHE_REDIS_PREFIX"`
}

type LevelDBCacheConfig struct {
	Path string `yaml:"path" env:"PREFORK_CACHE_LEVELDB_PATH"`
}

type SQLiteCacheConfig struct {
	DSN string `yaml:"dsn" env:"PREFORK_CACHE_SQLITE_DSN"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"PREFORK_LOG_LEVEL"`
	Format string `yaml:"format" env:"PREFORK_LOG_FORMAT"`
}

// DefaultConfig returns the configuration used for keys the file omits.
// Name and port have no default.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			PidFile: pidfile.DefaultPath,
			Options: ServerOptions{
				WorkerNum:       runtime.NumCPU(),
				DocumentRoot:    "public",
				ReadTimeout:     server.DefaultReadTimeout,
				WriteTimeout:    server.DefaultWriteTimeout,
				ShutdownTimeout: server.DefaultShutdownTimeout,
			},
		},
		Cache: CacheConfig{
			Driver:   DriverMemory,
			Capacity: cache.DefaultCapacity,
			Methods:  []string{"GET"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads the YAML file at path over DefaultConfig, applies
// environment overrides and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := config.LoadFile(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required keys and value ranges.
func (c Config) Validate() error {
	if c.Server.Name == "" {
		return fmt.Errorf("%w: server.name", ErrConfigurationMissing)
	}
	if c.Server.Port == 0 {
		return fmt.Errorf("%w: server.port", ErrConfigurationMissing)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Server.Options.WorkerNum < 0 || c.Server.Options.TaskWorkerNum < 0 || c.Server.Options.MaxRequest < 0 {
		return fmt.Errorf("%w: worker counts must not be negative", ErrInvalidConfig)
	}
	if c.Server.Options.EnableStaticHandler && c.Server.Options.DocumentRoot == "" {
		return fmt.Errorf("%w: server.options.document_root", ErrConfigurationMissing)
	}
	if c.CacheEnabled() {
		switch c.Cache.Driver {
		case DriverMemory, "":
		case DriverRedis:
			if c.Cache.Redis.URL == "" {
				return fmt.Errorf("%w: cache.redis.url", ErrConfigurationMissing)
			}
		case DriverLevelDB:
			if c.Cache.LevelDB.Path == "" {
				return fmt.Errorf("%w: cache.leveldb.path", ErrConfigurationMissing)
			}
		case DriverSQLite:
			if c.Cache.SQLite.DSN == "" {
				return fmt.Errorf("%w: cache.sqlite.dsn", ErrConfigurationMissing)
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnknownCacheDriver, c.Cache.Driver)
		}
	}
	return nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// CacheEnabled reports whether cache.switch is on.
func (c Config) CacheEnabled() bool {
	return c.Cache.Switch == 1
}

func (c Config) hostConfig() server.Config {
	o := c.Server.Options
	return server.Config{
		Addr:            c.Addr(),
		WorkerNum:       o.WorkerNum,
		TaskWorkerNum:   o.TaskWorkerNum,
		MaxRequest:      o.MaxRequest,
		ReadTimeout:     o.ReadTimeout,
		WriteTimeout:    o.WriteTimeout,
		ShutdownTimeout: o.ShutdownTimeout,
	}
}
