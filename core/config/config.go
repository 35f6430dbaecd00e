package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var dotenvOnce sync.Once

// loadDotenv loads .env once per process. A missing file is not an error.
func loadDotenv() {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// Load populates cfg from environment variables, keeping existing values for
// variables that are not set.
func Load(cfg any) error {
	if err := validateTarget(cfg); err != nil {
		return err
	}
	loadDotenv()

	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParse, err)
	}
	return nil
}

// MustLoad is like Load but panics on error. Intended for program startup.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// LoadFile decodes the YAML file at path into cfg and then applies
// environment overrides. A missing file yields ErrConfigurationMissing.
func LoadFile(path string, cfg any) error {
	if err := validateTarget(cfg); err != nil {
		return err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s does not exist", ErrConfigurationMissing, path)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(b, cfg); err != nil {
		return errors.Join(ErrParse, fmt.Errorf("%s: %w", path, err))
	}

	return Load(cfg)
}

func validateTarget(cfg any) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrInvalidTarget
	}
	return nil
}
