package fortigen_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/fortigen"
)

func TestSchemaParseError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := &fortigen.SchemaParseError{
			File:     "cmdb/firewall/policy.json",
			Endpoint: "cmdb/firewall/policy",
			Message:  "fields section is not a mapping",
		}
		assert.Equal(t, "fortigen: schema parse error on cmdb/firewall/policy (file: cmdb/firewall/policy.json): fields section is not a mapping", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := fortigen.NewSchemaParseError("cmdb/x", "bad", nil)
		assert.True(t, errors.Is(err, fortigen.ErrSchemaParse))
		assert.False(t, errors.Is(err, fortigen.ErrOutputWrite))
	})

	t.Run("Unwrap", func(t *testing.T) {
		cause := errors.New("yaml: line 1")
		err := fortigen.NewSchemaParseError("cmdb/x", "decode", cause)
		assert.ErrorIs(t, err, cause)
		assert.True(t, fortigen.IsSchemaParseError(fmt.Errorf("wrap: %w", err)))
	})
}

func TestUnresolvableDatasourceError(t *testing.T) {
	err := &fortigen.UnresolvableDatasourceError{
		Endpoint:   "firewall/policy",
		Field:      "srcaddr",
		Datasource: "address",
		Message:    "expected at least two tokens",
	}
	assert.Equal(t, `fortigen: unresolvable datasource "address" on firewall/policy.srcaddr: expected at least two tokens`, err.Error())
	assert.ErrorIs(t, err, fortigen.ErrUnresolvableDatasource)
	assert.True(t, fortigen.IsUnresolvableDatasource(err))
}

func TestOutputWriteError(t *testing.T) {
	cause := errors.New("permission denied")
	err := fortigen.NewOutputWriteError("cmdb/firewall/policy", "cmdb/firewall/policy.go", "", cause)
	assert.Equal(t, "fortigen: output write error for cmdb/firewall/policy (path: cmdb/firewall/policy.go): permission denied", err.Error())
	assert.ErrorIs(t, err, fortigen.ErrOutputWrite)
	assert.ErrorIs(t, err, cause)
	assert.True(t, fortigen.IsOutputWriteError(err))
	assert.False(t, fortigen.IsDownloadError(err))
}

func TestDownloadError(t *testing.T) {
	err := fortigen.NewDownloadError("schemas", errors.New("no such file or directory"))
	assert.Equal(t, `fortigen: schema corpus "schemas" unavailable: no such file or directory`, err.Error())
	assert.ErrorIs(t, err, fortigen.ErrDownload)
	assert.True(t, fortigen.IsDownloadError(err))
}

func TestValidationError(t *testing.T) {
	t.Run("with value", func(t *testing.T) {
		err := fortigen.NewValidationError("protocol", "ICMP", "must be one of [TCP UDP]")
		assert.Equal(t, `fortigen: invalid field "protocol" (value: ICMP): must be one of [TCP UDP]`, err.Error())
	})

	t.Run("without value", func(t *testing.T) {
		err := fortigen.NewValidationError("name", nil, "required field is missing")
		assert.Equal(t, `fortigen: invalid field "name": required field is missing`, err.Error())
	})

	t.Run("joined", func(t *testing.T) {
		err := errors.Join(
			fortigen.NewValidationError("a", nil, "missing"),
			fortigen.NewValidationError("b", nil, "missing"),
		)
		assert.True(t, fortigen.IsValidationError(err))
		assert.ErrorIs(t, err, fortigen.ErrValidation)
	})
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, fortigen.IsNotFound(fortigen.ErrNotFound))
	assert.True(t, fortigen.IsNotFound(fmt.Errorf("GET firewall/policy/9: %w", fortigen.ErrNotFound)))
	assert.False(t, fortigen.IsNotFound(errors.New("other error")))
	assert.False(t, fortigen.IsNotFound(nil))
}
