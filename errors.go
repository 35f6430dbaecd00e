package prefork

import (
	"errors"

	"github.com/dmitrymomot/prefork/core/config"
)

var (
	// ErrConfigurationMissing is returned when the config file is absent or
	// lacks server.name or server.port.
	ErrConfigurationMissing = config.ErrConfigurationMissing

	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrNilBootstrap       = errors.New("bootstrap function is required")
	ErrUnknownCacheDriver = errors.New("unknown cache driver")
	ErrCacheStore         = errors.New("failed to open cache store")
	ErrAdminServer        = errors.New("admin server failed")
)
