package load

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/fortigen"
)

// Parse normalizes one schema document. The document may be JSON or YAML in
// either the flat shape
//
//	{category, path, mkey, help, fields: {name: {...}}}
//
// or the FortiOS envelope
//
//	{results: {path, name, mkey, help, children: {name: {...}}}}
//
// Values in the document take precedence over category and apiPath. Field
// order is preserved.
func Parse(doc []byte, category, apiPath string) (*Schema, error) {
	endpoint := category + "/" + apiPath
	var root yaml.Node
	if err := yaml.Unmarshal(doc, &root); err != nil {
		return nil, fortigen.NewSchemaParseError(endpoint, "malformed document", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fortigen.NewSchemaParseError(endpoint, "empty document", nil)
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fortigen.NewSchemaParseError(endpoint, "document is not a mapping", nil)
	}

	body, fieldsKey := top, "fields"
	if results := lookup(top, "results"); results != nil {
		if results.Kind != yaml.MappingNode {
			return nil, fortigen.NewSchemaParseError(endpoint, "results is not a mapping", nil)
		}
		body, fieldsKey = results, "children"
		dir, name := scalar(lookup(results, "path")), scalar(lookup(results, "name"))
		switch {
		case dir != "" && name != "":
			apiPath = dir + "/" + name
		case name != "":
			apiPath = name
		}
	} else {
		if c := scalar(lookup(top, "category")); c != "" {
			category = c
		}
		if p := scalar(lookup(top, "path", "apiPath", "api_path")); p != "" {
			apiPath = p
		}
	}
	endpoint = category + "/" + apiPath
	if category == "" {
		return nil, fortigen.NewSchemaParseError(endpoint, "missing category", nil)
	}

	s, err := newSchema(category, apiPath)
	if err != nil {
		return nil, fortigen.NewSchemaParseError(endpoint, "invalid path", err)
	}
	s.MKey = scalar(lookup(body, "mkey"))
	s.Help = scalar(lookup(body, "help"))

	fields := lookup(body, fieldsKey)
	if fields == nil || isNull(fields) {
		return s, nil
	}
	if fields.Kind != yaml.MappingNode {
		return nil, fortigen.NewSchemaParseError(s.ID(), fieldsKey+" is not a mapping", nil)
	}
	seen := make(map[string]struct{}, len(fields.Content)/2)
	for i := 0; i+1 < len(fields.Content); i += 2 {
		name := fields.Content[i].Value
		if _, dup := seen[name]; dup {
			return nil, fortigen.NewSchemaParseError(s.ID(), fmt.Sprintf("duplicate field %q", name), nil)
		}
		seen[name] = struct{}{}
		f, err := parseField(name, fields.Content[i+1])
		if err != nil {
			return nil, fortigen.NewSchemaParseError(s.ID(), fmt.Sprintf("field %q", name), err)
		}
		s.Fields = append(s.Fields, f)
	}
	return s, nil
}

// LoadFile reads and parses a single schema document.
func LoadFile(path, category, apiPath string) (*Schema, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, &fortigen.SchemaParseError{File: path, Endpoint: category + "/" + apiPath, Message: "read failed", Cause: err}
	}
	s, err := Parse(doc, category, apiPath)
	if err != nil {
		var pe *fortigen.SchemaParseError
		if errors.As(err, &pe) {
			pe.File = path
		}
		return nil, err
	}
	s.Source = path
	return s, nil
}

func parseField(name string, n *yaml.Node) (*Field, error) {
	f := &Field{Name: name}
	if isNull(n) {
		return f, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping, got %s", kindName(n))
	}
	var err error
	f.Type = scalar(lookup(n, "type"))
	f.Help = scalar(lookup(n, "help"))
	if f.Required, err = boolValue(lookup(n, "required")); err != nil {
		return nil, fmt.Errorf("required: %w", err)
	}
	if f.Deprecated, err = boolValue(lookup(n, "deprecated")); err != nil {
		return nil, fmt.Errorf("deprecated: %w", err)
	}
	if v := lookup(n, "default"); v != nil && !isNull(v) {
		if err := v.Decode(&f.Default); err != nil {
			return nil, fmt.Errorf("default: %w", err)
		}
	}
	f.DeprecationReason = optString(lookup(n, "deprecation_reason", "deprecationReason"))
	f.Alternative = optString(lookup(n, "alternative"))
	if f.Options, err = listValues(lookup(n, "options"), "name"); err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	if f.Datasources, err = listValues(lookup(n, "datasource", "datasources"), "datasource"); err != nil {
		return nil, fmt.Errorf("datasource: %w", err)
	}
	if f.MinValue, err = intValue(lookup(n, "min-value", "min_value")); err != nil {
		return nil, fmt.Errorf("min-value: %w", err)
	}
	if f.MaxValue, err = intValue(lookup(n, "max-value", "max_value")); err != nil {
		return nil, fmt.Errorf("max-value: %w", err)
	}
	size, err := intValue(lookup(n, "size"))
	if err != nil {
		return nil, fmt.Errorf("size: %w", err)
	}
	if size != nil {
		f.Size = int(*size)
	}
	return f, nil
}

// lookup returns the value of the first key present in mapping m.
func lookup(m *yaml.Node, keys ...string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for _, key := range keys {
		for i := 0; i+1 < len(m.Content); i += 2 {
			if m.Content[i].Value == key {
				return m.Content[i+1]
			}
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	default:
		return "scalar"
	}
}

// scalar returns the value of a scalar node, or "".
func scalar(n *yaml.Node) string {
	if n == nil || n.Kind != yaml.ScalarNode || isNull(n) {
		return ""
	}
	return n.Value
}

func optString(n *yaml.Node) *string {
	if n == nil || n.Kind != yaml.ScalarNode || isNull(n) {
		return nil
	}
	v := n.Value
	return &v
}

// boolValue accepts YAML booleans and the strings "true"/"false".
func boolValue(n *yaml.Node) (bool, error) {
	if n == nil || isNull(n) {
		return false, nil
	}
	if n.Kind != yaml.ScalarNode {
		return false, fmt.Errorf("expected a boolean, got %s", kindName(n))
	}
	b, err := strconv.ParseBool(strings.ToLower(n.Value))
	if err != nil {
		return false, fmt.Errorf("expected a boolean, got %q", n.Value)
	}
	return b, nil
}

func intValue(n *yaml.Node) (*int64, error) {
	if n == nil || isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("expected an integer, got %s", kindName(n))
	}
	v, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("expected an integer, got %q", n.Value)
	}
	return &v, nil
}

// listValues reads a scalar, a sequence of scalars, or a sequence of mappings
// carrying key.
func listValues(n *yaml.Node, key string) ([]string, error) {
	if n == nil || isNull(n) {
		return nil, nil
	}
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Value == "" {
			return nil, nil
		}
		return []string{n.Value}, nil
	case yaml.MappingNode:
		if v := scalar(lookup(n, key)); v != "" {
			return []string{v}, nil
		}
		return nil, fmt.Errorf("mapping without %q", key)
	case yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				out = append(out, item.Value)
			case yaml.MappingNode:
				v := scalar(lookup(item, key))
				if v == "" {
					return nil, fmt.Errorf("entry without %q", key)
				}
				out = append(out, v)
			default:
				return nil, fmt.Errorf("unexpected %s entry", kindName(item))
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unexpected %s", kindName(n))
	}
}
