package gen

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/fortigen"
	"github.com/syssam/fortigen/compiler/load"
	"github.com/syssam/fortigen/graph"
)

func TestBuildContextCustom(t *testing.T) {
	s := mustParse(t, customDoc, "", "")
	c := BuildContext(KindImplementation, s, testConfig(t))

	assert.Equal(t, KindImplementation, c.Kind)
	assert.Equal(t, "dev", c.Version)
	assert.Empty(t, c.Timestamp)
	assert.Equal(t, []string{"name", "protocol"}, c.Required)
	assert.Empty(t, c.Deprecated)

	require.Len(t, c.Enums, 1)
	e := c.Enums[0]
	assert.Equal(t, "protocol", e.Field)
	assert.Equal(t, "PROTOCOL", e.Name)
	assert.Equal(t, []string{"TCP", "UDP"}, e.Values)
	assert.Equal(t, "CustomProtocol", e.TypeName)
	assert.Equal(t, "CustomProtocolValues", e.ValuesIdent)
	assert.Equal(t, []EnumConst{
		{Ident: "CustomProtocolTcp", Value: "TCP"},
		{Ident: "CustomProtocolUdp", Value: "UDP"},
	}, e.Constants)

	require.Len(t, c.Fields, 2)
	assert.Equal(t, "Name", c.Fields[0].GoName)
	assert.Equal(t, "*string", c.Fields[0].GoType)
	assert.Equal(t, "Protocol", c.Fields[1].GoName)
	assert.Equal(t, "*CustomProtocol", c.Fields[1].GoType)
	assert.Same(t, e, c.Fields[1].Enum)
}

func TestBuildContextPolicy(t *testing.T) {
	s := corpusSchema(t, "firewall/policy")
	c := BuildContext(KindTypeStub, s, testConfig(t))

	types := map[string]string{}
	for _, f := range c.Fields {
		types[f.GoName] = f.GoType
	}
	assert.Equal(t, map[string]string{
		"Policyid":  "*int64",
		"Name":      "*string",
		"Srcaddr":   "[]map[string]any",
		"Action":    "*PolicyAction",
		"Schedule":  "*string",
		"Vpntunnel": "*string",
		"RtpNat":    "*PolicyRtpNat",
	}, types)

	require.Len(t, c.Enums, 2)
	assert.Equal(t, "RTP_NAT", c.Enums[1].Name)
	assert.Equal(t, []string{"accept", "deny", "ipsec"}, c.Enums[0].Values)

	assert.Equal(t, map[string]fortigen.Deprecation{
		"rtp-nat": {Reason: "Replaced by rtp-addr.", Alternative: "rtp-addr"},
	}, c.Deprecated)
	assert.Equal(t, []string{"rtp-nat"}, c.DeprecatedNames())
}

func TestBuildContextUniqueNames(t *testing.T) {
	s := mustParse(t, `{"fields": {
		"foo-bar": {"type": "option", "options": ["a", ""]},
		"foo_bar": {"type": "option", "options": ["b"]},
		"payload": {"type": "string"},
		"8021x": {"type": "string"}
	}}`, "cmdb", "system/x")
	c := BuildContext(KindTypeStub, s, testConfig(t))

	require.Len(t, c.Enums, 2)
	assert.Equal(t, "FOO_BAR", c.Enums[0].Name)
	assert.Equal(t, "FOO_BAR2", c.Enums[1].Name)
	assert.NotEqual(t, c.Enums[0].TypeName, c.Enums[1].TypeName)
	assert.Equal(t, "XFooBarEmpty", c.Enums[0].Constants[1].Ident)

	names := []string{}
	for _, f := range c.Fields {
		names = append(names, f.GoName)
	}
	assert.Equal(t, []string{"FooBar", "FooBar2", "Payload2", "F8021x"}, names)

	seen := map[string]bool{}
	for _, kind := range Kinds {
		for _, ident := range c.Identifiers(kind) {
			assert.False(t, seen[ident], "identifier %s declared twice", ident)
			seen[ident] = true
		}
	}
}

func TestBuildContextTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	c := BuildContext(KindValidator, mustParse(t, customDoc, "", ""), testConfig(t, WithTimestamp(ts), WithVersion("v1.2.3")))
	assert.Equal(t, "2024-03-01T11:00:00Z", c.Timestamp)
	assert.Equal(t, "v1.2.3", c.Version)
}

func TestBuildContextNeighbours(t *testing.T) {
	policy := corpusSchema(t, "firewall/policy")
	address := corpusSchema(t, "firewall/address")
	g, err := graph.Analyze(context.Background(), []*load.Schema{policy, address})
	require.NoError(t, err)

	cfg := testConfig(t, WithGraph(g))
	assert.Contains(t, BuildContext(KindImplementation, policy, cfg).DependsOn, "firewall/address")
	assert.Equal(t, []string{"firewall/policy"}, BuildContext(KindImplementation, address, cfg).DependedBy)
}

func TestIdentifiers(t *testing.T) {
	c := BuildContext(KindImplementation, mustParse(t, customDoc, "", ""), testConfig(t))
	assert.Equal(t, []string{"Custom", "NewCustom", "customCategory", "customPath"}, c.Identifiers(KindImplementation))
	assert.Equal(t, []string{"CustomPayload", "CustomProtocol", "CustomProtocolTcp", "CustomProtocolUdp"}, c.Identifiers(KindTypeStub))
	assert.Contains(t, c.Identifiers(KindValidator), "CustomProtocolValues")
	assert.Contains(t, c.Identifiers(KindValidator), "ValidateCustomPost")
}

func TestUnexport(t *testing.T) {
	tests := map[string]string{
		"Custom":        "custom",
		"SslSshProfile": "sslSshProfile",
		"T8021x":        "t8021x",
		"HTTPServer":    "httpServer",
		"X":             "x",
	}
	for input, expected := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, expected, unexport(input))
		})
	}
}
