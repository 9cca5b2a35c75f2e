package fortigen_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/fortigen"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name    string
		payload fortigen.Payload
		wantErr bool
	}{
		{"all present", fortigen.Payload{"name": "web", "protocol": "TCP"}, false},
		{"missing", fortigen.Payload{"name": "web"}, true},
		{"nil value", fortigen.Payload{"name": "web", "protocol": nil}, true},
		{"empty string", fortigen.Payload{"name": "", "protocol": "TCP"}, true},
		{"zero integer counts", fortigen.Payload{"name": 0, "protocol": "TCP"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fortigen.ValidateRequired(tt.payload, "name", "protocol")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, fortigen.IsValidationError(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateOption(t *testing.T) {
	assert.NoError(t, fortigen.ValidateOption(fortigen.Payload{}, "protocol", "TCP", "UDP"))
	assert.NoError(t, fortigen.ValidateOption(fortigen.Payload{"protocol": "UDP"}, "protocol", "TCP", "UDP"))
	assert.Error(t, fortigen.ValidateOption(fortigen.Payload{"protocol": "ICMP"}, "protocol", "TCP", "UDP"))
	assert.Error(t, fortigen.ValidateOption(fortigen.Payload{"protocol": 6}, "protocol", "TCP", "UDP"))
}

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{"int in range", 80, false},
		{"float64 from json", float64(443), false},
		{"json number", json.Number("8080"), false},
		{"below", -1, true},
		{"above", 70000, true},
		{"fraction", 1.5, true},
		{"string", "80", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fortigen.ValidateRange(fortigen.Payload{"port": tt.value}, "port", 0, 65535)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.NoError(t, fortigen.ValidateRange(fortigen.Payload{}, "port", 0, 65535))
}

func TestValidateLength(t *testing.T) {
	assert.NoError(t, fortigen.ValidateLength(fortigen.Payload{"name": "web"}, "name", 3))
	assert.Error(t, fortigen.ValidateLength(fortigen.Payload{"name": "webs"}, "name", 3))
	assert.NoError(t, fortigen.ValidateLength(fortigen.Payload{"name": "ééé"}, "name", 3))
	assert.NoError(t, fortigen.ValidateLength(fortigen.Payload{}, "name", 3))
}

func TestItemPath(t *testing.T) {
	assert.Equal(t, "firewall/policy", fortigen.ItemPath("firewall/policy", ""))
	assert.Equal(t, "firewall/policy/42", fortigen.ItemPath("firewall/policy", "42"))
	assert.Equal(t, "firewall/address/web%2F24", fortigen.ItemPath("firewall/address", "web/24"))
}

func TestToPayload(t *testing.T) {
	name := "web"
	p, err := fortigen.ToPayload(struct {
		Name     *string `json:"name,omitempty"`
		Protocol *string `json:"protocol,omitempty"`
	}{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, fortigen.Payload{"name": "web"}, p)
}
