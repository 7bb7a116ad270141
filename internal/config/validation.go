package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates configuration values.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// addError adds a validation error.
func (v *Validator) addError(field, message string) {
	v.errors = append(v.errors, ValidationError{Field: field, Message: message})
}

// Validate validates the entire configuration and returns any errors.
func (v *Validator) Validate(cfg *Config) error {
	v.errors = make(ValidationErrors, 0)

	v.validateBuildConfig(&cfg.Build)
	v.validateLoggingConfig(&cfg.Logging)

	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

// validateBuildConfig validates the build execution configuration.
func (v *Validator) validateBuildConfig(cfg *BuildConfig) {
	if cfg.Concurrency < 1 {
		v.addError("build.concurrency", "concurrency must be at least 1")
	}
	if cfg.Concurrency > 1024 {
		v.addError("build.concurrency", "concurrency must not exceed 1024")
	}
	if cfg.TaskTimeout < 0 {
		v.addError("build.task_timeout", "task timeout must not be negative")
	}
	if cfg.TaskTimeout > 0 && cfg.TaskTimeout < time.Millisecond {
		v.addError("build.task_timeout", "task timeout below 1ms is almost certainly a unit mistake")
	}
}

// validateLoggingConfig validates the logging configuration.
func (v *Validator) validateLoggingConfig(cfg *LoggingConfig) {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "error", "silent":
	default:
		v.addError("logging.level", fmt.Sprintf("unknown log level: %s", cfg.Level))
	}
}
