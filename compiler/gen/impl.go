package gen

import (
	"bytes"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/fortigen/naming"
)

// newFile creates a Jennifer file with the generated-code header.
func newFile(c *Context, importPath, pkg string) *jen.File {
	f := jen.NewFilePathName(importPath, pkg)
	f.ImportName(RuntimePackage, "fortigen")
	f.HeaderComment("Code generated by fortigen " + c.Version + ". DO NOT EDIT.")
	f.HeaderComment("Source: " + c.Schema.Category + "/" + c.Schema.APIPath)
	if c.Timestamp != "" {
		f.HeaderComment("Generated at: " + c.Timestamp)
	}
	return f
}

func render(c *Context, f *jen.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, NewRenderError(c.Kind, c.Schema.ID(), "render source", err)
	}
	return buf.Bytes(), nil
}

// docLines appends comment lines to a group, one per line of text.
func docLines(f *jen.File, lines ...string) {
	for _, l := range lines {
		if l == "" {
			f.Comment("")
			continue
		}
		f.Comment(l)
	}
}

// RenderImplementation renders the endpoint client: a struct bound to a
// fortigen.Transport with Get, Post, Put, Delete and Exists for tables, or
// Get and Put for singletons. Post and Put validate the payload first.
func RenderImplementation(c *Context) ([]byte, error) {
	s := c.Schema
	class := s.ClassName
	lower := unexport(class)
	f := newFile(c, c.Paths.ImportPath, c.Paths.Package)

	doc := []string{class + " is the client of " + s.Category + "/" + s.APIPath + "."}
	if s.Help != "" {
		doc = append(doc, "")
		doc = append(doc, comment(s.Help)...)
	}
	if len(c.DependsOn) > 0 {
		doc = append(doc, "", "Depends on: "+strings.Join(c.DependsOn, ", ")+".")
	}
	if len(c.DependedBy) > 0 {
		doc = append(doc, "", "Depended on by: "+strings.Join(c.DependedBy, ", ")+".")
	}
	if names := c.DeprecatedNames(); len(names) > 0 {
		doc = append(doc, "", "Deprecated fields: "+strings.Join(names, ", ")+".")
	}
	docLines(f, doc...)
	f.Type().Id(class).Struct(
		jen.Id("transport").Qual(RuntimePackage, "Transport"),
	)
	f.Line()

	f.Const().Defs(
		jen.Id(lower+"Category").Op("=").Lit(s.Category),
		jen.Id(lower+"Path").Op("=").Lit(s.APIPath),
	)
	f.Line()

	f.Comment("New" + class + " returns a new " + class + " that sends requests through t.")
	f.Func().Id("New"+class).Params(jen.Id("t").Qual(RuntimePackage, "Transport")).Op("*").Id(class).Block(
		jen.Return(jen.Op("&").Id(class).Values(jen.Dict{jen.Id("transport"): jen.Id("t")})),
	)

	recv := jen.Id("c").Op("*").Id(class)
	results := []jen.Code{jen.Qual(RuntimePackage, "Response"), jen.Error()}
	tail := []jen.Code{
		jen.Id("params").Qual(RuntimePackage, "Params"),
		jen.Id("vdom").String(),
		jen.Id("rawJSON").Bool(),
	}
	ctxParam := jen.Id("ctx").Qual("context", "Context")
	payloadParam := jen.Id("payload").Qual(RuntimePackage, "Payload")
	mkeyParam := jen.Id("mkey").String()
	target := jen.Id(lower + "Path")
	if !s.Singleton() {
		target = jen.Qual(RuntimePackage, "ItemPath").Call(jen.Id(lower+"Path"), jen.Id("mkey"))
	}
	validate := func(method string) jen.Code {
		return jen.If(
			jen.Err().Op(":=").Qual(c.Paths.HelpersImportPath, "Validate"+class+method).Call(jen.Id("payload")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Nil(), jen.Err()))
	}
	call := func(method string, withPayload bool, path jen.Code) jen.Code {
		args := []jen.Code{jen.Id("ctx"), jen.Id(lower + "Category"), path}
		if withPayload {
			args = append(args, jen.Id("payload"))
		}
		args = append(args, jen.Id("params"), jen.Id("vdom"), jen.Id("rawJSON"))
		return jen.Return(jen.Id("c").Dot("transport").Dot(method).Call(args...))
	}
	params := func(head ...jen.Code) []jen.Code {
		return append(append([]jen.Code{ctxParam}, head...), tail...)
	}

	if s.Singleton() {
		f.Line()
		f.Comment("Get retrieves the " + s.Path + " object.")
		f.Func().Params(recv).Id("Get").Params(params()...).Params(results...).Block(
			call("Get", false, target),
		)
		f.Line()
		f.Comment("Put validates payload and updates the " + s.Path + " object.")
		f.Func().Params(recv).Id("Put").Params(params(payloadParam)...).Params(results...).Block(
			validate("Put"),
			call("Put", true, target),
		)
		return render(c, f)
	}

	plural := naming.Plural(s.Segments[len(s.Segments)-1])
	f.Line()
	f.Comment("Get retrieves the object identified by mkey, or all " + plural + " when mkey is empty.")
	f.Func().Params(recv).Id("Get").Params(params(mkeyParam)...).Params(results...).Block(
		call("Get", false, target),
	)
	f.Line()
	f.Comment("Post validates payload and creates an object.")
	f.Func().Params(recv).Id("Post").Params(params(payloadParam)...).Params(results...).Block(
		validate("Post"),
		call("Post", true, jen.Id(lower+"Path")),
	)
	f.Line()
	f.Comment("Put validates payload and updates the object identified by mkey.")
	f.Func().Params(recv).Id("Put").Params(params(mkeyParam, payloadParam)...).Params(results...).Block(
		validate("Put"),
		call("Put", true, target),
	)
	f.Line()
	f.Comment("Delete removes the object identified by mkey.")
	f.Func().Params(recv).Id("Delete").Params(params(mkeyParam)...).Params(results...).Block(
		call("Delete", false, target),
	)
	f.Line()
	f.Comment("Exists reports whether the object identified by mkey exists.")
	f.Func().Params(recv).Id("Exists").Params(ctxParam, mkeyParam, jen.Id("vdom").String()).Params(jen.Bool(), jen.Error()).Block(
		jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("c").Dot("transport").Dot("Get").Call(
			jen.Id("ctx"), jen.Id(lower+"Category"), target, jen.Nil(), jen.Id("vdom"), jen.False(),
		),
		jen.If(jen.Qual(RuntimePackage, "IsNotFound").Call(jen.Err())).Block(
			jen.Return(jen.False(), jen.Nil()),
		),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.False(), jen.Err()),
		),
		jen.Return(jen.True(), jen.Nil()),
	)
	return render(c, f)
}
