// Package load reads endpoint schema documents and normalizes them into
// Schema values consumed by the graph analyzer and the code generator.
package load

import "strings"

// Schema describes one REST endpoint as loaded from its schema document.
type Schema struct {
	// Category is the API category, e.g. "cmdb".
	Category string `json:"category"`
	// Path is the canonical, slash-joined resource path, e.g. "firewall/service/custom".
	Path string `json:"path"`
	// APIPath is the wire path as written in the document. It may contain dots.
	APIPath string `json:"api_path"`
	// Segments holds the components of Path.
	Segments []string `json:"segments"`
	// FileName and ClassName are derived from the last segment only.
	FileName  string `json:"file_name"`
	ClassName string `json:"class_name"`
	// MKey is the primary-key field of a table endpoint. Empty for singletons.
	MKey   string   `json:"mkey,omitempty"`
	Fields []*Field `json:"fields,omitempty"`
	Help   string   `json:"help,omitempty"`
	// Source is the file the schema was read from, if any.
	Source string `json:"-"`
}

// ID returns the category-qualified endpoint name used in diagnostics.
func (s *Schema) ID() string {
	return s.Category + "/" + s.Path
}

// Singleton reports whether the endpoint holds exactly one configuration object.
func (s *Schema) Singleton() bool {
	return s.MKey == ""
}

// Dirs returns the path segments above the endpoint itself.
func (s *Schema) Dirs() []string {
	if len(s.Segments) == 0 {
		return nil
	}
	return s.Segments[:len(s.Segments)-1]
}

// Field returns the field with the given wire name, or nil.
func (s *Schema) Field(name string) *Field {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Kind is the normalized field type vocabulary.
type Kind string

// Field kinds.
const (
	KindString   Kind = "string"
	KindInteger  Kind = "integer"
	KindOption   Kind = "option"
	KindTable    Kind = "table"
	KindAddress  Kind = "address"
	KindPassword Kind = "password"
	KindUUID     Kind = "uuid"
	KindDatetime Kind = "datetime"
)

// Field describes one field of an endpoint.
type Field struct {
	// Name is the wire name. It is never rewritten.
	Name string `json:"name"`
	// Type is the raw type string from the document.
	Type string `json:"type,omitempty"`
	// Required is the raw schema flag. It is unreliable on its own.
	Required bool `json:"required,omitempty"`
	// Default is nil when the document declares no default.
	Default           any      `json:"default,omitempty"`
	Options           []string `json:"options,omitempty"`
	Deprecated        bool     `json:"deprecated,omitempty"`
	DeprecationReason *string  `json:"deprecation_reason,omitempty"`
	Alternative       *string  `json:"alternative,omitempty"`
	Datasources       []string `json:"datasources,omitempty"`
	Help              string   `json:"help,omitempty"`
	MinValue          *int64   `json:"min_value,omitempty"`
	MaxValue          *int64   `json:"max_value,omitempty"`
	// Size is the maximum string length. Zero means unset.
	Size int `json:"size,omitempty"`
}

// Kind maps the raw type onto the fixed vocabulary.
func (f *Field) Kind() Kind {
	t := strings.ToLower(f.Type)
	switch {
	case t == "integer" || t == "int" || t == "uint" || t == "number":
		return KindInteger
	case t == "option" || t == "options" || t == "enum" || len(f.Options) > 0 && t == "":
		return KindOption
	case t == "table" || t == "list":
		return KindTable
	case strings.HasPrefix(t, "password"):
		return KindPassword
	case t == "uuid":
		return KindUUID
	case t == "datetime" || t == "date" || t == "time":
		return KindDatetime
	case strings.HasPrefix(t, "ipv4") || strings.HasPrefix(t, "ipv6") ||
		strings.Contains(t, "address"):
		return KindAddress
	default:
		return KindString
	}
}

// IsReference reports whether the field points at other endpoints.
func (f *Field) IsReference() bool {
	return len(f.Datasources) > 0
}

// HasDefault reports whether the field carries a usable default.
// An empty string does not count.
func (f *Field) HasDefault() bool {
	switch v := f.Default.(type) {
	case nil:
		return false
	case string:
		return v != ""
	default:
		return true
	}
}
