package graph

import (
	"strings"

	"github.com/syssam/fortigen"
)

// Target is the endpoint and field a datasource points at.
type Target struct {
	// Endpoint is the slash-joined path of the referenced endpoint.
	Endpoint string
	// Field is the referenced key field. It is not part of the graph.
	Field string
}

// ParseDatasource splits a datasource string on dots. The last token names the
// referenced field and the tokens before it form the target endpoint:
//
//	"firewall.address.name"          -> firewall/address
//	"firewall.schedule.onetime.name" -> firewall/schedule/onetime
//
// Strings with fewer than two tokens, or with an empty token, are rejected
// with a *fortigen.UnresolvableDatasourceError.
func ParseDatasource(ds string) (Target, error) {
	tokens := strings.Split(strings.TrimSpace(ds), ".")
	if len(tokens) < 2 {
		return Target{}, fortigen.NewUnresolvableDatasourceError(ds, "expected at least two dot-separated tokens")
	}
	for _, tok := range tokens {
		if tok == "" {
			return Target{}, fortigen.NewUnresolvableDatasourceError(ds, "empty token")
		}
	}
	last := len(tokens) - 1
	return Target{
		Endpoint: strings.Join(tokens[:last], "/"),
		Field:    tokens[last],
	}, nil
}
