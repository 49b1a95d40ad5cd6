// Package config provides configuration management for apimport.
package config

import (
	"time"
)

// Config is the root configuration structure for apimport.
type Config struct {
	Functions FunctionsConfig `mapstructure:"functions"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	History   HistoryConfig   `mapstructure:"history"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// FunctionsConfig points at the function management plane.
type FunctionsConfig struct {
	// Base URL of the function management plane
	Endpoint string `mapstructure:"endpoint"`

	// Bearer credential for management calls
	Token string `mapstructure:"token"`
}

// GatewayConfig points at the gateway management plane.
type GatewayConfig struct {
	// Base URL of the gateway management plane
	Endpoint string `mapstructure:"endpoint"`

	// Bearer credential for gateway calls
	Token string `mapstructure:"token"`
}

// HTTPConfig holds transport settings shared by both clients.
type HTTPConfig struct {
	// Timeout for a single HTTP attempt
	Timeout time.Duration `mapstructure:"timeout"`

	// Retries for transient failures of idempotent requests
	Retries uint64 `mapstructure:"retries"`
}

// HistoryConfig holds the import-run journal settings.
type HistoryConfig struct {
	// Path of the SQLite journal
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `mapstructure:"level"`

	// Log format (json, console)
	Format string `mapstructure:"format"`
}
