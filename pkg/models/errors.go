package models

import "fmt"

// ValidationError indicates an invalid configuration value
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Message)
}

// ConfigError indicates a fatal input problem (bad or missing root,
// conflicting flags). It aborts the run before the pipeline starts.
type ConfigError struct {
	Message string
}

// Error returns the error message
func (e *ConfigError) Error() string {
	return e.Message
}

// NewConfigError creates a ConfigError with a formatted message
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// InvariantError indicates a pipeline bug (e.g. duplicate relative path
// with conflicting presence). It should never occur in correct operation
// and always aborts the run.
type InvariantError struct {
	Message string
}

// Error returns the error message
func (e *InvariantError) Error() string {
	return "invariant violation: " + e.Message
}

// NewInvariantError creates an InvariantError with a formatted message
func NewInvariantError(format string, args ...any) *InvariantError {
	return &InvariantError{Message: fmt.Sprintf(format, args...)}
}
