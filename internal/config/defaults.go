package config

import "time"

// Default configuration values.
const (
	// HTTP defaults.
	DefaultHTTPTimeout = 60 * time.Second
	DefaultHTTPRetries = 2

	// History defaults.
	DefaultHistoryPath = "apimport.db"

	// Logging defaults.
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout: DefaultHTTPTimeout,
			Retries: DefaultHTTPRetries,
		},
		History: HistoryConfig{
			Path: DefaultHistoryPath,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
