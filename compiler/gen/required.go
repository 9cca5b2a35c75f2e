package gen

import (
	"strings"

	"github.com/syssam/fortigen/compiler/load"
)

// featureKeywords mark fields that are only required when an orthogonal
// feature is enabled, which the schema cannot express.
var featureKeywords = []string{"wanopt", "rtp", "vpn", "ztna", "ssl-ssh", "nat64", "nat46"}

// RequiredFields returns the names of the fields treated as mandatory on
// create, in schema order. The first matching rule decides:
//
//  1. not required by the schema: excluded
//  2. has a usable default ("" does not count): excluded
//  3. name contains a feature keyword: excluded
//  4. otherwise: included
//
// The rules are a heuristic. Conditionally required groups, such as an IPv4
// address required unless an IPv6 address is given, are not modelled.
func RequiredFields(s *load.Schema) []string {
	var out []string
	for _, f := range s.Fields {
		if isRequired(f) {
			out = append(out, f.Name)
		}
	}
	return out
}

func isRequired(f *load.Field) bool {
	if !f.Required {
		return false
	}
	if f.HasDefault() {
		return false
	}
	for _, kw := range featureKeywords {
		if strings.Contains(f.Name, kw) {
			return false
		}
	}
	return true
}
