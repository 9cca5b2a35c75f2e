package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		return name
	})
	for tag, fn := range map[string]validator.Func{
		"importpath": validateImportPath,
		"singleline": validateSingleLine,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	return v
}

// validateImportPath accepts slash-separated Go import paths.
func validateImportPath(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	if p == "" || strings.HasPrefix(p, "/") || strings.HasSuffix(p, "/") {
		return false
	}
	return !strings.ContainsAny(p, " \t\r\n\\:") && !strings.Contains(p, "//")
}

func validateSingleLine(fl validator.FieldLevel) bool {
	return !strings.ContainsAny(fl.Field().String(), "\r\n")
}

// Validate checks the struct tags of cfg and TimestampValue.
func Validate(cfg *Config) error {
	var errs ValidationError
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs.Errors = append(errs.Errors, FieldError{
				Field:   strings.TrimPrefix(fe.Namespace(), "Config."),
				Message: message(fe),
				Value:   fmt.Sprintf("%v", fe.Value()),
			})
		}
	}
	if _, err := cfg.TimestampValue(); err != nil {
		var fe *FieldError
		if errors.As(err, &fe) {
			errs.Errors = append(errs.Errors, *fe)
		}
	}
	if len(errs.Errors) == 0 {
		return nil
	}
	return &errs
}

// ValidationError lists every invalid configuration field.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return "config: invalid configuration: " + strings.Join(msgs, "; ")
}

// FieldError is one invalid configuration field.
type FieldError struct {
	Field   string
	Message string
	Value   string
}

func (e *FieldError) Error() string {
	return "config: " + e.Message
}

func message(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "importpath":
		return field + " must be a Go import path"
	case "singleline":
		return field + " must be a single line"
	default:
		return field + " failed " + fe.Tag() + " validation"
	}
}
