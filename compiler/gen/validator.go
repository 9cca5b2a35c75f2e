package gen

import (
	"github.com/dave/jennifer/jen"
)

// RenderValidator renders the helpers file of an endpoint: field lists,
// scalar defaults, enum values, deprecation metadata and the payload
// validators called by the implementation before Post and Put.
func RenderValidator(c *Context) ([]byte, error) {
	s := c.Schema
	class := s.ClassName
	f := newFile(c, c.Paths.HelpersImportPath, helpersDir)

	names := make([]jen.Code, 0, len(s.Fields))
	for _, fd := range s.Fields {
		names = append(names, jen.Lit(fd.Name))
	}
	f.Comment(class + "Fields lists the fields of " + s.ID() + " in schema order.")
	f.Var().Id(class + "Fields").Op("=").Index().String().Values(names...)
	f.Line()

	required := make([]jen.Code, 0, len(c.Required))
	for _, name := range c.Required {
		required = append(required, jen.Lit(name))
	}
	f.Comment(class + "RequiredFields lists the fields a create request must carry.")
	f.Var().Id(class + "RequiredFields").Op("=").Index().String().Values(required...)
	f.Line()

	defaults := jen.Dict{}
	for _, fd := range s.Fields {
		if !fd.HasDefault() {
			continue
		}
		switch v := fd.Default.(type) {
		case string, bool, int, int64, float64:
			defaults[jen.Lit(fd.Name)] = jen.Lit(v)
		}
	}
	f.Comment(class + "Defaults holds the scalar defaults declared by the schema.")
	f.Var().Id(class + "Defaults").Op("=").Map(jen.String()).Id("any").Values(defaults)

	for _, e := range c.Enums {
		values := make([]jen.Code, 0, len(e.Values))
		for _, v := range e.Values {
			values = append(values, jen.Lit(v))
		}
		f.Line()
		f.Comment(e.ValuesIdent + " lists the allowed values of " + e.Field + ".")
		f.Var().Id(e.ValuesIdent).Op("=").Index().String().Values(values...)
	}
	f.Line()

	deprecated := jen.Dict{}
	for _, name := range c.DeprecatedNames() {
		d := c.Deprecated[name]
		fields := jen.Dict{}
		if d.Reason != "" {
			fields[jen.Id("Reason")] = jen.Lit(d.Reason)
		}
		if d.Alternative != "" {
			fields[jen.Id("Alternative")] = jen.Lit(d.Alternative)
		}
		deprecated[jen.Lit(name)] = jen.Values(fields)
	}
	f.Comment(class + "DeprecatedFields maps deprecated fields to their replacement notes.")
	f.Var().Id(class+"DeprecatedFields").Op("=").Map(jen.String()).Qual(RuntimePackage, "Deprecation").Values(deprecated)
	f.Line()

	payload := jen.Id("payload").Qual(RuntimePackage, "Payload")
	validate := "validate" + class

	f.Comment("Validate" + class + "Post checks a create request: required fields and field constraints.")
	f.Func().Id("Validate"+class+"Post").Params(payload).Error().Block(
		jen.Return(jen.Qual("errors", "Join").Call(
			jen.Qual(RuntimePackage, "ValidateRequired").Call(jen.Id("payload"), jen.Id(class+"RequiredFields").Op("...")),
			jen.Id(validate).Call(jen.Id("payload")),
		)),
	)
	f.Line()
	f.Comment("Validate" + class + "Put checks an update request. Fields may be omitted.")
	f.Func().Id("Validate"+class+"Put").Params(payload).Error().Block(
		jen.Return(jen.Id(validate).Call(jen.Id("payload"))),
	)
	f.Line()

	checks := constraintChecks(c)
	if len(checks) == 0 {
		f.Func().Id(validate).Params(jen.Id("_").Qual(RuntimePackage, "Payload")).Error().Block(
			jen.Return(jen.Nil()),
		)
		return render(c, f)
	}
	f.Func().Id(validate).Params(payload).Error().Block(
		jen.Return(jen.Qual("errors", "Join").CustomFunc(jen.Options{
			Open:      "(",
			Close:     ")",
			Separator: ",",
			Multi:     true,
		}, func(g *jen.Group) {
			for _, check := range checks {
				g.Add(check)
			}
		})),
	)
	return render(c, f)
}

// constraintChecks returns one validation call per field constraint, in
// schema order.
func constraintChecks(c *Context) []jen.Code {
	var out []jen.Code
	for _, fd := range c.Fields {
		name := jen.Lit(fd.Name)
		if fd.Enum != nil {
			out = append(out, jen.Qual(RuntimePackage, "ValidateOption").Call(
				jen.Id("payload"), name, jen.Id(fd.Enum.ValuesIdent).Op("..."),
			))
		}
		if fd.MinValue != nil || fd.MaxValue != nil {
			lo, hi := jen.Qual("math", "MinInt64"), jen.Qual("math", "MaxInt64")
			if fd.MinValue != nil {
				lo = jen.Lit(*fd.MinValue)
			}
			if fd.MaxValue != nil {
				hi = jen.Lit(*fd.MaxValue)
			}
			out = append(out, jen.Qual(RuntimePackage, "ValidateRange").Call(jen.Id("payload"), name, lo, hi))
		}
		if fd.Size > 0 {
			out = append(out, jen.Qual(RuntimePackage, "ValidateLength").Call(jen.Id("payload"), name, jen.Lit(fd.Size)))
		}
	}
	return out
}
