package config

import (
	"fmt"
	"net/url"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}

func Validate(cfg *Config) error {
	var errs ValidationErrors

	errs = append(errs, validateEndpoint("functions.endpoint", cfg.Functions.Endpoint)...)
	errs = append(errs, validateEndpoint("gateway.endpoint", cfg.Gateway.Endpoint)...)
	errs = append(errs, validateHTTP(&cfg.HTTP)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateEndpoint(field, endpoint string) ValidationErrors {
	if endpoint == "" {
		return ValidationErrors{{Field: field, Message: "is required"}}
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ValidationErrors{{Field: field, Message: "must be an absolute URL"}}
	}
	return nil
}

func validateHTTP(cfg *HTTPConfig) ValidationErrors {
	var errs ValidationErrors
	if cfg.Timeout <= 0 {
		errs = append(errs, ValidationError{Field: "http.timeout", Message: "must be positive"})
	}
	return errs
}

func validateLogging(cfg *LoggingConfig) ValidationErrors {
	var errs ValidationErrors
	switch cfg.Level {
	case "debug", "info", "warn", "error", "":
	default:
		errs = append(errs, ValidationError{Field: "logging.level", Message: "must be one of debug, info, warn, error"})
	}
	switch cfg.Format {
	case "json", "console", "":
	default:
		errs = append(errs, ValidationError{Field: "logging.format", Message: "must be json or console"})
	}
	return errs
}
