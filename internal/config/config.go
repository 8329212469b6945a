// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables and an optional config.yml. It provides a centralized Config
// struct used across the application.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host string `mapstructure:"APP_HOST"`
	Port string `mapstructure:"APP_PORT"`
	Env  string `mapstructure:"APP_ENV"` // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string `mapstructure:"POSTGRES_HOST"`
	DBPort     string `mapstructure:"POSTGRES_PORT"`
	DBUser     string `mapstructure:"POSTGRES_USER"`
	DBPassword string `mapstructure:"POSTGRES_PASSWORD"`
	DBName     string `mapstructure:"POSTGRES_DB"`

	// Valkey (sessions, submit tokens, featured cache)
	ValkeyHost     string `mapstructure:"VALKEY_HOST"`
	ValkeyPort     string `mapstructure:"VALKEY_PORT"`
	ValkeyPassword string `mapstructure:"VALKEY_PASSWORD"`

	// S3-compatible photo storage (optional)
	S3Endpoint  string `mapstructure:"S3_ENDPOINT"`
	S3Region    string `mapstructure:"S3_REGION"`
	S3AccessKey string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey string `mapstructure:"S3_SECRET_KEY"`
	S3Bucket    string `mapstructure:"S3_BUCKET"`
	S3PublicURL string `mapstructure:"S3_PUBLIC_URL"`

	// LoginRateLimit is the number of /auth submissions allowed per IP per minute.
	LoginRateLimit int `mapstructure:"LOGIN_RATE_LIMIT"`
}

// defaults lists every key Load understands. Keys must be registered with a
// default so that viper's Unmarshal picks up environment overrides.
var defaults = map[string]any{
	"APP_HOST": "0.0.0.0",
	"APP_PORT": "8080",
	"APP_ENV":  "development",

	"POSTGRES_HOST":     "localhost",
	"POSTGRES_PORT":     "5432",
	"POSTGRES_USER":     "carsouq",
	"POSTGRES_PASSWORD": "changeme",
	"POSTGRES_DB":       "carsouq",

	"VALKEY_HOST":     "localhost",
	"VALKEY_PORT":     "6379",
	"VALKEY_PASSWORD": "",

	"S3_ENDPOINT":   "",
	"S3_REGION":     "fsn1",
	"S3_ACCESS_KEY": "",
	"S3_SECRET_KEY": "",
	"S3_BUCKET":     "carsouq-photos",
	"S3_PUBLIC_URL": "",

	"LOGIN_RATE_LIMIT": 10,
}

// Load reads configuration from an optional config.yml in the working
// directory, then from environment variables, applying development defaults.
// Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that are unsafe to run.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("APP_PORT is required")
	}
	if c.LoginRateLimit <= 0 {
		return errors.New("LOGIN_RATE_LIMIT must be positive")
	}
	if c.IsProd() && c.DBPassword == "changeme" {
		return errors.New("POSTGRES_PASSWORD must be set in production")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProd returns true if the application is running in production mode.
func (c *Config) IsProd() bool {
	return c.Env == "production"
}

// HasStorage reports whether S3 photo storage is configured.
func (c *Config) HasStorage() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
