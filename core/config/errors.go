package config

import "errors"

var (
	// ErrConfigurationMissing is returned when the configuration file does not exist.
	ErrConfigurationMissing = errors.New("configuration missing")
	// ErrInvalidTarget is returned when the target is not a non-nil pointer to a struct.
	ErrInvalidTarget = errors.New("configuration target must be a non-nil pointer to a struct")
	// ErrParse is returned when the file or environment cannot be decoded.
	ErrParse = errors.New("failed to parse configuration")
)
