package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for generator failures.
var (
	// ErrInvalidConfig indicates a generator option error.
	ErrInvalidConfig = errors.New("fortigen: invalid generator configuration")
	// ErrRenderFailed indicates an artifact that could not be rendered.
	ErrRenderFailed = errors.New("fortigen: render failed")
	// ErrStale indicates a generated file that differs from its schema in check mode.
	ErrStale = errors.New("fortigen: generated file is stale")
)

// ConfigError represents an invalid generator option.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("fortigen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("fortigen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// RenderError represents a failure rendering one artifact of an endpoint.
type RenderError struct {
	Kind     Kind   // artifact kind
	Endpoint string // category/path
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	var b strings.Builder
	b.WriteString("fortigen: render error")
	if e.Kind != "" {
		b.WriteString(" in ")
		b.WriteString(string(e.Kind))
	}
	if e.Endpoint != "" {
		b.WriteString(" for ")
		b.WriteString(e.Endpoint)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for RenderError.
func (e *RenderError) Is(target error) bool {
	return target == ErrRenderFailed
}

// NewRenderError creates a new RenderError.
func NewRenderError(kind Kind, endpoint, message string, cause error) *RenderError {
	return &RenderError{
		Kind:     kind,
		Endpoint: endpoint,
		Message:  message,
		Cause:    cause,
	}
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// IsRenderError reports whether the error is a RenderError.
func IsRenderError(err error) bool {
	var e *RenderError
	return errors.As(err, &e)
}
