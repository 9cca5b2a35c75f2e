// Package gen generates the Go client of a FortiOS-style REST API from
// loaded endpoint schemas.
//
// Every endpoint yields three artifacts below the target directory:
//
//	<category>/<dirs>/<file>.go          client bound to a fortigen.Transport
//	<category>/<dirs>/helpers/<file>.go  field lists, defaults and validators
//	<category>/<dirs>/<file>_types.go    typed payload and enum constants
//
// Generation runs in two phases. The plan phase builds one Context per
// artifact and claims every output path and package-level identifier, so
// colliding endpoints fail before anything is written. The write phase
// renders the artifacts of each endpoint in parallel and replaces only the
// files whose bytes changed.
//
// The implementation and validator are built with Jennifer; the type stub
// is rendered from a text/template and formatted with goimports.
//
// # Usage
//
//	g, err := gen.New(
//		gen.WithTarget("./fortios"),
//		gen.WithPackage("github.com/acme/fortios"),
//		gen.WithGraph(graph),
//	)
//	if err != nil {
//		return err
//	}
//	res, err := g.Generate(ctx, corpus.Schemas)
//
// Output is byte-identical across runs for the same schemas and version,
// unless WithTimestamp is set.
package gen
