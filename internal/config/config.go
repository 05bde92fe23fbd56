// Package config loads settings from cifparse.yaml and the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"cifparse/internal/api"
	"cifparse/internal/publish"
	"cifparse/internal/storage"
)

// Config holds all configuration for the parser and API.
type Config struct {
	DBPath string
	Log    LogConfig
	API    api.Config
	NATS   publish.Config
	Export storage.ExportConfig
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from the config file and environment variables.
// A CIFPARSE_CONFIG_PATH environment variable overrides the search path,
// and every key can be set via CIFPARSE_<KEY> with dots replaced by
// underscores, e.g. CIFPARSE_API_PORT.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults.
	v.SetDefault("db_path", "cifp.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.auth_enabled", false)
	v.SetDefault("api.keys", []string{})
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject_prefix", "cifp")
	v.SetDefault("export.clickhouse.host", "localhost")
	v.SetDefault("export.clickhouse.port", 9000)
	v.SetDefault("export.clickhouse.database", "cifp")
	v.SetDefault("export.clickhouse.user", "default")
	v.SetDefault("export.clickhouse.password", "")
	v.SetDefault("export.postgres.host", "localhost")
	v.SetDefault("export.postgres.port", 5432)
	v.SetDefault("export.postgres.database", "cifp")
	v.SetDefault("export.postgres.user", "cifp")
	v.SetDefault("export.postgres.password", "cifp")

	v.SetConfigName("cifparse")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/cifparse")
	v.AddConfigPath(".")

	if configPath := os.Getenv("CIFPARSE_CONFIG_PATH"); configPath != "" {
		v.SetConfigFile(configPath)
	}

	// A missing config file is fine; defaults and env vars apply.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("CIFPARSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		DBPath: v.GetString("db_path"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		API: api.Config{
			Port:        v.GetInt("api.port"),
			AuthEnabled: v.GetBool("api.auth_enabled"),
			APIKeys:     v.GetStringSlice("api.keys"),
		},
		NATS: publish.Config{
			URL:           v.GetString("nats.url"),
			SubjectPrefix: v.GetString("nats.subject_prefix"),
		},
		Export: storage.ExportConfig{
			ClickHouse: storage.ClickHouseConfig{
				Host:     v.GetString("export.clickhouse.host"),
				Port:     v.GetInt("export.clickhouse.port"),
				Database: v.GetString("export.clickhouse.database"),
				User:     v.GetString("export.clickhouse.user"),
				Password: v.GetString("export.clickhouse.password"),
			},
			Postgres: storage.PostgresConfig{
				Host:     v.GetString("export.postgres.host"),
				Port:     v.GetInt("export.postgres.port"),
				Database: v.GetString("export.postgres.database"),
				User:     v.GetString("export.postgres.user"),
				Password: v.GetString("export.postgres.password"),
			},
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate validates the configuration values.
func validate(cfg *Config) error {
	if cfg.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}

	if cfg.API.Port <= 0 || cfg.API.Port > 65535 {
		return fmt.Errorf("api.port must be between 1 and 65535")
	}

	if cfg.API.AuthEnabled && len(cfg.API.APIKeys) == 0 {
		return fmt.Errorf("api.keys is required when api.auth_enabled is set")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", cfg.Log.Format)
	}

	return nil
}
