package gen

import (
	"maps"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/syssam/fortigen"
	"github.com/syssam/fortigen/compiler/load"
	"github.com/syssam/fortigen/naming"
)

// Kind identifies one of the three artifacts generated per endpoint.
type Kind string

// Artifact kinds.
const (
	KindImplementation Kind = "implementation"
	KindValidator      Kind = "validator"
	KindTypeStub       Kind = "type-stub"
)

// Kinds lists the artifact kinds in generation order.
var Kinds = []Kind{KindImplementation, KindValidator, KindTypeStub}

// Context is the data one artifact is rendered from. Contexts of different
// kinds for the same endpoint share no mutable state.
type Context struct {
	Kind    Kind
	Schema  *load.Schema
	Paths   Paths
	Version string
	// Timestamp is empty unless a timestamp was configured.
	Timestamp string
	// Required lists the fields mandatory on create, in schema order.
	Required []string
	// Enums has one entry per field with options, in schema order.
	Enums []*Enum
	// Deprecated maps deprecated field names to their metadata.
	Deprecated map[string]fortigen.Deprecation
	// Fields is the full field list, in schema order.
	Fields []*Field
	// DependsOn and DependedBy are the graph neighbours of the endpoint.
	DependsOn  []string
	DependedBy []string
}

// Enum describes the allowed values of one option field.
type Enum struct {
	// Field is the wire name of the field.
	Field string
	// Name is the constant-case name derived from the sanitized field name,
	// unique within the endpoint.
	Name string
	// Values are the option literals in schema order.
	Values []string
	// TypeName is the Go type of the field in the type stub.
	TypeName string
	// ValuesIdent is the helpers variable listing Values.
	ValuesIdent string
	// Constants are the typed constants of the type stub, one per value.
	Constants []EnumConst
}

// EnumConst is one typed enum constant.
type EnumConst struct {
	Ident string
	Value string
}

// Field is a schema field with its generated Go names.
type Field struct {
	*load.Field
	// GoName is the struct field name in the type stub.
	GoName string
	// GoType is the struct field type in the type stub.
	GoType string
	// Enum is set for option fields with options.
	Enum *Enum
}

// BuildContext builds the rendering context of one artifact of s. Enum
// identifiers are unique within the endpoint; the Generator additionally
// makes them unique within the package.
func BuildContext(kind Kind, s *load.Schema, c *Config) *Context {
	return newContext(kind, s, c, naming.NewUniquer(classIdentifiers(s.ClassName)...))
}

// classIdentifiers returns the fixed identifiers of every artifact kind, so
// enum names come out the same whichever kind is built.
func classIdentifiers(class string) []string {
	var out []string
	for _, kind := range Kinds {
		out = append(out, fixedIdentifiers(class, kind)...)
	}
	return out
}

// newContext builds a context whose enum types and constants are claimed
// from idents, the package-level scope of the implementation package.
func newContext(kind Kind, s *load.Schema, c *Config, idents *naming.Uniquer) *Context {
	ctx := &Context{
		Kind:       kind,
		Schema:     s,
		Paths:      DerivePaths(s, c.Package),
		Version:    c.Version,
		Required:   RequiredFields(s),
		Deprecated: map[string]fortigen.Deprecation{},
	}
	if c.Timestamp != nil {
		ctx.Timestamp = c.Timestamp.UTC().Format(time.RFC3339)
	}
	if c.Graph != nil {
		ctx.DependsOn = c.Graph.DependsOn(s.Path)
		ctx.DependedBy = c.Graph.DependedBy(s.Path)
	}

	class := s.ClassName
	enumNames := naming.NewUniquer()
	fieldNames := naming.NewUniquer("Payload")
	for _, f := range s.Fields {
		gf := &Field{Field: f, GoName: fieldNames.Claim(goName(f.Name))}
		if len(f.Options) > 0 {
			e := &Enum{
				Field:  f.Name,
				Name:   enumNames.Claim(naming.ToConstant(naming.Sanitize(f.Name))),
				Values: f.Options,
			}
			pascal := naming.ToPascal(e.Name)
			e.TypeName = idents.Claim(class + pascal)
			e.ValuesIdent = e.TypeName + "Values"
			for _, v := range f.Options {
				suffix := naming.ToPascal(naming.Sanitize(v))
				if suffix == "" {
					suffix = "Empty"
				}
				e.Constants = append(e.Constants, EnumConst{
					Ident: idents.Claim(e.TypeName + suffix),
					Value: v,
				})
			}
			gf.Enum = e
			ctx.Enums = append(ctx.Enums, e)
		}
		gf.GoType = goType(gf)
		ctx.Fields = append(ctx.Fields, gf)
		if f.Deprecated {
			var d fortigen.Deprecation
			if f.DeprecationReason != nil {
				d.Reason = *f.DeprecationReason
			}
			if f.Alternative != nil {
				d.Alternative = *f.Alternative
			}
			ctx.Deprecated[f.Name] = d
		}
	}
	return ctx
}

// forKind returns a copy of c for another artifact kind. The copy shares the
// schema and no mutable state with c.
func (c *Context) forKind(kind Kind) *Context {
	out := *c
	out.Kind = kind
	out.Required = slices.Clone(c.Required)
	out.DependsOn = slices.Clone(c.DependsOn)
	out.DependedBy = slices.Clone(c.DependedBy)
	out.Deprecated = maps.Clone(c.Deprecated)
	enums := make(map[*Enum]*Enum, len(c.Enums))
	out.Enums = make([]*Enum, 0, len(c.Enums))
	for _, e := range c.Enums {
		ce := *e
		ce.Values = slices.Clone(e.Values)
		ce.Constants = slices.Clone(e.Constants)
		enums[e] = &ce
		out.Enums = append(out.Enums, &ce)
	}
	out.Fields = make([]*Field, 0, len(c.Fields))
	for _, f := range c.Fields {
		cf := *f
		if f.Enum != nil {
			cf.Enum = enums[f.Enum]
		}
		out.Fields = append(out.Fields, &cf)
	}
	return &out
}

// DeprecatedNames returns the deprecated field names, sorted.
func (c *Context) DeprecatedNames() []string {
	names := make([]string, 0, len(c.Deprecated))
	for name := range c.Deprecated {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Identifiers returns the package-level identifiers the artifact of the
// given kind declares.
func (c *Context) Identifiers(kind Kind) []string {
	return append(fixedIdentifiers(c.Schema.ClassName, kind), c.enumIdentifiers(kind)...)
}

// fixedIdentifiers returns the identifiers derived from the class name
// alone. They never change, so a clash between two endpoints is an error.
func fixedIdentifiers(class string, kind Kind) []string {
	switch kind {
	case KindValidator:
		return []string{
			class + "Fields", class + "RequiredFields", class + "Defaults", class + "DeprecatedFields",
			"Validate" + class + "Post", "Validate" + class + "Put", "validate" + class,
		}
	case KindTypeStub:
		return []string{class + "Payload"}
	default:
		lower := unexport(class)
		return []string{class, "New" + class, lower + "Category", lower + "Path"}
	}
}

// enumIdentifiers returns the enum-derived identifiers of an artifact.
func (c *Context) enumIdentifiers(kind Kind) []string {
	var out []string
	for _, e := range c.Enums {
		switch kind {
		case KindValidator:
			out = append(out, e.ValuesIdent)
		case KindTypeStub:
			out = append(out, e.TypeName)
			for _, k := range e.Constants {
				out = append(out, k.Ident)
			}
		}
	}
	return out
}

// goName returns the exported struct field name of a wire field.
func goName(wire string) string {
	name := naming.ToPascal(wire)
	if name == "" {
		return "Field"
	}
	if unicode.IsDigit(rune(name[0])) {
		return "F" + name
	}
	return name
}

func goType(f *Field) string {
	switch {
	case f.Enum != nil:
		return "*" + f.Enum.TypeName
	case f.Kind() == load.KindInteger:
		return "*int64"
	case f.Kind() == load.KindTable:
		return "[]map[string]any"
	default:
		return "*string"
	}
}

// unexport lower-cases the leading upper-case run of an identifier.
// Example: "SslSshProfile" -> "sslSshProfile", "T8021x" -> "t8021x"
func unexport(s string) string {
	r := []rune(s)
	for i := range r {
		if !unicode.IsUpper(r[i]) {
			break
		}
		if i > 0 && i+1 < len(r) && unicode.IsLower(r[i+1]) {
			break
		}
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}

// comment splits help text into comment lines.
func comment(text string) []string {
	var lines []string
	for _, l := range strings.Split(strings.TrimSpace(text), "\n") {
		lines = append(lines, strings.TrimSpace(l))
	}
	return lines
}
