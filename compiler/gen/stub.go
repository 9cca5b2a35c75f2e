package gen

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"
)

var stubTemplate = template.Must(template.New("stub").Funcs(template.FuncMap{
	"quote":       strconv.Quote,
	"comment":     comment,
	"deprecation": deprecationNote,
	"tag":         func(name string) string { return "`json:\"" + name + ",omitempty\"`" },
}).Parse(`// Code generated by fortigen {{ .Version }}. DO NOT EDIT.
// Source: {{ .Schema.Category }}/{{ .Schema.APIPath }}
{{- if .Timestamp }}
// Generated at: {{ .Timestamp }}
{{- end }}

package {{ .Paths.Package }}

import "github.com/syssam/fortigen"
{{ range .Enums }}
// {{ .TypeName }} is the value set of the {{ .Field }} field.
type {{ .TypeName }} string

// {{ .TypeName }} values.
const (
{{- $type := .TypeName }}
{{- range .Constants }}
	{{ .Ident }} {{ $type }} = {{ quote .Value }}
{{- end }}
)
{{ end }}
// {{ .Schema.ClassName }}Payload is the typed request body of {{ .Schema.ID }}.
// Nil fields are omitted from the request.
type {{ .Schema.ClassName }}Payload struct {
{{- range .Fields }}
{{- if .Help }}
{{- range comment .Help }}
	// {{ . }}
{{- end }}
{{- end }}
{{- if .Deprecated }}
{{- if .Help }}
	//
{{- end }}
	// {{ deprecation . }}
{{- end }}
	{{ .GoName }} {{ .GoType }} {{ tag .Name }}
{{- end }}
}

// Payload converts p into the untyped form accepted by {{ .Schema.ClassName }}.
func (p *{{ .Schema.ClassName }}Payload) Payload() (fortigen.Payload, error) {
	return fortigen.ToPayload(p)
}
`))

// RenderTypeStub renders the typed payload of an endpoint: one string type
// with constants per enum field and a struct with one pointer field per
// schema field.
func RenderTypeStub(c *Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := stubTemplate.Execute(&buf, c); err != nil {
		return nil, NewRenderError(c.Kind, c.Schema.ID(), "execute template", err)
	}
	src, err := imports.Process(c.Paths.TypeStub, buf.Bytes(), &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		return nil, NewRenderError(c.Kind, c.Schema.ID(), "format source", err)
	}
	return src, nil
}

// deprecationNote is the Deprecated paragraph of a field comment.
func deprecationNote(f *Field) string {
	var b strings.Builder
	b.WriteString("Deprecated: ")
	if f.DeprecationReason != nil {
		b.WriteString(strings.TrimSuffix(*f.DeprecationReason, "."))
	} else {
		b.WriteString("no longer supported")
	}
	if f.Alternative != nil {
		b.WriteString("; use " + *f.Alternative + " instead")
	}
	return b.String() + "."
}
