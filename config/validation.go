package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requiredFields lists the settings that must be present per environment
var requiredFields = map[Environment][]string{
	Production: {"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME"},
	CI:         {"DB_HOST", "DB_PORT", "DB_USER", "DB_NAME"},
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var errors []string

	switch cfg.DBDriver {
	case DriverPostgres:
		values := map[string]string{
			"DB_HOST":     cfg.DBHost,
			"DB_PORT":     cfg.DBPort,
			"DB_USER":     cfg.DBUser,
			"DB_PASSWORD": cfg.DBPassword,
			"DB_NAME":     cfg.DBName,
		}
		for _, field := range requiredFields[cfg.Env] {
			if values[field] == "" {
				errors = append(errors, ValidationError{Field: field, Message: "is required"}.Error())
			}
		}
	case DriverSQLite:
		if cfg.DBName == "" {
			errors = append(errors, ValidationError{Field: "DB_NAME", Message: "sqlite database path is required"}.Error())
		}
	default:
		errors = append(errors, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)}.Error())
	}

	if cfg.ServerPort == "" {
		errors = append(errors, ValidationError{Field: "SERVER_PORT", Message: "is required"}.Error())
	}
	if cfg.RateLimit < 0 || cfg.RateLimitBurst < 0 {
		errors = append(errors, ValidationError{Field: "RATE_LIMIT", Message: "must not be negative"}.Error())
	}

	switch cfg.LogLevel {
	case "silent", "error", "warn", "info":
	default:
		errors = append(errors, ValidationError{Field: "LOG_LEVEL", Message: fmt.Sprintf("unknown level %q", cfg.LogLevel)}.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
