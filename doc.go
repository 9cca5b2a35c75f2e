// Package fortigen is the runtime contract shared by the fortigen code
// generator and the endpoint packages it emits.
//
// The generator itself lives under compiler/: compiler/load parses one schema
// document per REST resource, graph builds the cross-endpoint dependency
// graph from datasource references, and compiler/gen renders three artifacts
// per endpoint:
//
//	<category>/<dirs>/<file>.go          implementation (Get/Post/Put/Delete)
//	<category>/<dirs>/helpers/<file>.go  validation helpers
//	<category>/<dirs>/<file>_types.go    typed payload and enum constants
//
// Generated code talks to the network only through Transport:
//
//	policy := firewall.NewPolicy(transport)
//	resp, err := policy.Get(ctx, "42", nil, "root", false)
//	if fortigen.IsNotFound(err) {
//	    // ...
//	}
//
// # Error Handling
//
// The generator reports failures with typed errors that match a sentinel via
// errors.Is:
//
//   - SchemaParseError: malformed schema document, file skipped
//   - UnresolvableDatasourceError: bad datasource reference, edge skipped
//   - OutputWriteError: artifacts of one endpoint could not be written
//   - DownloadError: the schema corpus is missing, run aborted
//
// Generated validators return ValidationError values joined with errors.Join.
package fortigen
