package config

import "fmt"

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateRequired checks that a string field is not empty.
func ValidateRequired(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// ValidatePort checks that a port number is in range.
func ValidatePort(field string, port int) error {
	if port < 1 || port > 65535 {
		return &ValidationError{Field: field, Message: "must be between 1 and 65535"}
	}
	return nil
}

// ValidateFloatRange checks lo <= value <= hi.
func ValidateFloatRange(field string, value, lo, hi float64) error {
	if value < lo || value > hi {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be between %g and %g", lo, hi)}
	}
	return nil
}

// ValidateMin checks value >= lo.
func ValidateMin(field string, value, lo int) error {
	if value < lo {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be >= %d", lo)}
	}
	return nil
}

// ValidateLogLevel checks that a log level is known.
func ValidateLogLevel(level string) error {
	switch level {
	case "debug", "info", "warn", "warning", "error", "fatal":
		return nil
	default:
		return &ValidationError{Field: "logging.level", Message: "must be one of: debug, info, warn, error, fatal"}
	}
}

// Validate validates a DatabaseConfig. Disabled databases are not checked.
func (c *DatabaseConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if err := ValidateRequired("database.host", c.Host); err != nil {
		return err
	}
	if err := ValidatePort("database.port", c.Port); err != nil {
		return err
	}
	if err := ValidateRequired("database.user", c.User); err != nil {
		return err
	}
	return ValidateRequired("database.database", c.Database)
}
