package graph

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ohler55/ojg/jp"
)

// Query evaluates a JSONPath expression against the export and returns the
// matched values ordered by their JSON encoding.
//
//	graph.Query(e, "$['firewall/policy'].dependsOn[*]")
//	graph.Query(e, "$.*.fields['firewall/address']")
func Query(e Export, expr string) ([]any, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("graph: invalid jsonpath %q: %w", expr, err)
	}
	results := x.Get(e.Data())

	type keyed struct {
		key   string
		value any
	}
	sorted := make([]keyed, len(results))
	for i, r := range results {
		b, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("graph: encode match: %w", err)
		}
		sorted[i] = keyed{key: string(b), value: r}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].key < sorted[j].key })

	out := make([]any, len(sorted))
	for i, k := range sorted {
		out[i] = k.value
	}
	return out, nil
}
