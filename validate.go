package fortigen

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"unicode/utf8"
)

// ValidateRequired reports every field missing from the payload.
// A present field holding an empty string counts as missing.
func ValidateRequired(payload Payload, fields ...string) error {
	var errs []error
	for _, f := range fields {
		v, ok := payload[f]
		if !ok || v == nil {
			errs = append(errs, NewValidationError(f, nil, "required field is missing"))
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			errs = append(errs, NewValidationError(f, nil, "required field is empty"))
		}
	}
	return errors.Join(errs...)
}

// ValidateOption checks that an enum field, when present, holds one of the
// allowed literals.
func ValidateOption(payload Payload, field string, allowed ...string) error {
	v, ok := payload[field]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return NewValidationError(field, v, "expected a string option")
	}
	if !slices.Contains(allowed, s) {
		return NewValidationError(field, v, fmt.Sprintf("must be one of %v", allowed))
	}
	return nil
}

// ValidateRange checks that an integer field, when present, lies within [min, max].
func ValidateRange(payload Payload, field string, min, max int64) error {
	v, ok := payload[field]
	if !ok || v == nil {
		return nil
	}
	n, ok := toInt64(v)
	if !ok {
		return NewValidationError(field, v, "expected an integer")
	}
	if n < min || n > max {
		return NewValidationError(field, v, fmt.Sprintf("must be between %d and %d", min, max))
	}
	return nil
}

// ValidateLength checks that a string field, when present, has at most size characters.
func ValidateLength(payload Payload, field string, size int) error {
	v, ok := payload[field]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if n := utf8.RuneCountInString(s); n > size {
		return NewValidationError(field, v, fmt.Sprintf("length %d exceeds maximum %d", n, size))
	}
	return nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
