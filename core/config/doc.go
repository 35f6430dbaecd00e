// Package config loads typed configuration from YAML files and environment
// variables.
//
// Values are resolved in three layers: the defaults already present in the
// target struct, then the YAML file (when LoadFile is used), then environment
// variables parsed by caarlos0/env. A .env file in the working directory is
// loaded once, on first use, via godotenv.
//
// Basic usage:
//
//	type Config struct {
//		Server struct {
//			Host string `yaml:"host" env:"APP_SERVER_HOST"`
//			Port int    `yaml:"port" env:"APP_SERVER_PORT"`
//		} `yaml:"server"`
//	}
//
//	cfg := Config{}
//	cfg.Server.Port = 8080 // default
//
//	if err := config.LoadFile("config/app.yaml", &cfg); err != nil {
//		if errors.Is(err, config.ErrConfigurationMissing) {
//			log.Fatal("run `app init` to create a configuration file")
//		}
//		log.Fatal(err)
//	}
//
// Environment-only configuration works the same way:
//
//	var db DatabaseConfig
//	config.MustLoad(&db)
package config
