package graph

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Export is the serializable form of a graph, keyed by endpoint.
type Export map[string]NodeExport

// NodeExport describes the edges of one endpoint. Fields maps each target in
// DependsOn to the source fields referencing it. Lists are sorted and never
// nil, so encodings are stable.
type NodeExport struct {
	DependsOn  []string            `json:"dependsOn" yaml:"dependsOn" msgpack:"dependsOn"`
	DependedBy []string            `json:"dependedBy" yaml:"dependedBy" msgpack:"dependedBy"`
	Fields     map[string][]string `json:"fields" yaml:"fields" msgpack:"fields"`
}

// Export returns the sorted serializable view of g.
func (g *Graph) Export() Export {
	e := make(Export, len(g.nodes))
	for name, n := range g.nodes {
		ne := NodeExport{
			DependsOn:  keys(n.dependsOn),
			DependedBy: keys(n.dependedBy),
			Fields:     make(map[string][]string, len(n.dependsOn)),
		}
		for target, fields := range n.dependsOn {
			ne.Fields[target] = fields.sorted()
		}
		e[name] = ne
	}
	return e
}

// Data returns e as generic JSON values, the form JSONPath queries run on.
func (e Export) Data() map[string]any {
	out := make(map[string]any, len(e))
	for name, ne := range e {
		fields := make(map[string]any, len(ne.Fields))
		for target, list := range ne.Fields {
			fields[target] = anyList(list)
		}
		out[name] = map[string]any{
			"dependsOn":  anyList(ne.DependsOn),
			"dependedBy": anyList(ne.DependedBy),
			"fields":     fields,
		}
	}
	return out
}

func anyList(list []string) []any {
	out := make([]any, len(list))
	for i, s := range list {
		out[i] = s
	}
	return out
}

// WriteJSON writes e as indented JSON with sorted keys.
func WriteJSON(w io.Writer, e Export) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("graph: encode json: %w", err)
	}
	return nil
}

// ReadJSON reads an export written by WriteJSON.
func ReadJSON(r io.Reader) (Export, error) {
	var e Export
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return nil, fmt.Errorf("graph: decode json: %w", err)
	}
	return e, nil
}

// WriteYAML writes e as YAML with sorted keys.
func WriteYAML(w io.Writer, e Export) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("graph: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("graph: encode yaml: %w", err)
	}
	return nil
}

// WriteMsgpack writes e as msgpack with sorted map keys.
func WriteMsgpack(w io.Writer, e Export) error {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("graph: encode msgpack: %w", err)
	}
	return nil
}

// ReadMsgpack reads an export written by WriteMsgpack.
func ReadMsgpack(r io.Reader) (Export, error) {
	var e Export
	if err := msgpack.NewDecoder(r).Decode(&e); err != nil {
		return nil, fmt.Errorf("graph: decode msgpack: %w", err)
	}
	return e, nil
}
