package fortigen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure classes of a generation run.
var (
	// ErrSchemaParse indicates a schema document that could not be normalized.
	ErrSchemaParse = errors.New("fortigen: schema parse failed")

	// ErrUnresolvableDatasource indicates a datasource reference that cannot be
	// split into a target endpoint and a referenced field.
	ErrUnresolvableDatasource = errors.New("fortigen: unresolvable datasource")

	// ErrOutputWrite indicates a failure creating directories or writing artifacts.
	ErrOutputWrite = errors.New("fortigen: output write failed")

	// ErrDownload indicates that the upstream schema corpus is unavailable.
	ErrDownload = errors.New("fortigen: schema corpus unavailable")

	// ErrEmptyCorpus is returned when the corpus contains no schema documents.
	ErrEmptyCorpus = errors.New("fortigen: empty schema corpus")

	// ErrNotFound is returned by transports when the requested object does not exist.
	ErrNotFound = errors.New("fortigen: object not found")

	// ErrValidation indicates a request payload rejected by a generated validator.
	ErrValidation = errors.New("fortigen: payload validation failed")
)

// SchemaParseError represents a malformed or unexpected schema document.
// The file is skipped and the run continues.
type SchemaParseError struct {
	File     string // Source file, if known
	Endpoint string // category/apiPath, if known
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *SchemaParseError) Error() string {
	var b strings.Builder
	b.WriteString("fortigen: schema parse error")
	if e.Endpoint != "" {
		b.WriteString(" on ")
		b.WriteString(e.Endpoint)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
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
func (e *SchemaParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaParseError.
func (e *SchemaParseError) Is(target error) bool {
	return target == ErrSchemaParse
}

// NewSchemaParseError creates a new SchemaParseError.
func NewSchemaParseError(endpoint, message string, cause error) *SchemaParseError {
	return &SchemaParseError{
		Endpoint: endpoint,
		Message:  message,
		Cause:    cause,
	}
}

// UnresolvableDatasourceError represents a datasource string that cannot be
// split into category and path. The edge is skipped.
type UnresolvableDatasourceError struct {
	Endpoint   string // Source endpoint
	Field      string // Source field
	Datasource string
	Message    string
}

// Error implements the error interface.
func (e *UnresolvableDatasourceError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fortigen: unresolvable datasource %q", e.Datasource)
	if e.Endpoint != "" {
		b.WriteString(" on ")
		b.WriteString(e.Endpoint)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for UnresolvableDatasourceError.
func (e *UnresolvableDatasourceError) Is(target error) bool {
	return target == ErrUnresolvableDatasource
}

// NewUnresolvableDatasourceError creates a new UnresolvableDatasourceError.
func NewUnresolvableDatasourceError(datasource, message string) *UnresolvableDatasourceError {
	return &UnresolvableDatasourceError{
		Datasource: datasource,
		Message:    message,
	}
}

// OutputWriteError represents a filesystem failure while emitting the artifacts
// of one endpoint. It is fatal for that endpoint only.
type OutputWriteError struct {
	Endpoint string
	Path     string
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *OutputWriteError) Error() string {
	var b strings.Builder
	b.WriteString("fortigen: output write error")
	if e.Endpoint != "" {
		b.WriteString(" for ")
		b.WriteString(e.Endpoint)
	}
	if e.Path != "" {
		b.WriteString(" (path: ")
		b.WriteString(e.Path)
		b.WriteString(")")
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
func (e *OutputWriteError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for OutputWriteError.
func (e *OutputWriteError) Is(target error) bool {
	return target == ErrOutputWrite
}

// NewOutputWriteError creates a new OutputWriteError.
func NewOutputWriteError(endpoint, path, message string, cause error) *OutputWriteError {
	return &OutputWriteError{
		Endpoint: endpoint,
		Path:     path,
		Message:  message,
		Cause:    cause,
	}
}

// DownloadError reports that the schema corpus was never retrieved, so there is
// nothing to parse. It aborts the run before parsing begins.
type DownloadError struct {
	Source string
	Cause  error
}

// Error implements the error interface.
func (e *DownloadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fortigen: schema corpus %q unavailable: %s", e.Source, e.Cause)
	}
	return fmt.Sprintf("fortigen: schema corpus %q unavailable", e.Source)
}

// Unwrap returns the underlying error.
func (e *DownloadError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for DownloadError.
func (e *DownloadError) Is(target error) bool {
	return target == ErrDownload
}

// NewDownloadError creates a new DownloadError.
func NewDownloadError(source string, cause error) *DownloadError {
	return &DownloadError{Source: source, Cause: cause}
}

// ValidationError represents a payload field rejected by a generated validator.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("fortigen: invalid field %q (value: %v): %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("fortigen: invalid field %q: %s", e.Field, e.Message)
}

// Is reports whether the target matches the sentinel error for ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsSchemaParseError reports whether the error is a SchemaParseError.
func IsSchemaParseError(err error) bool {
	var e *SchemaParseError
	return errors.As(err, &e)
}

// IsUnresolvableDatasource reports whether the error is an UnresolvableDatasourceError.
func IsUnresolvableDatasource(err error) bool {
	var e *UnresolvableDatasourceError
	return errors.As(err, &e)
}

// IsOutputWriteError reports whether the error is an OutputWriteError.
func IsOutputWriteError(err error) bool {
	var e *OutputWriteError
	return errors.As(err, &e)
}

// IsDownloadError reports whether the error is a DownloadError.
func IsDownloadError(err error) bool {
	var e *DownloadError
	return errors.As(err, &e)
}

// IsValidationError reports whether the error is, or wraps, a ValidationError.
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsNotFound reports whether the error signals a missing object.
func IsNotFound(err error) bool {
	return err != nil && errors.Is(err, ErrNotFound)
}
