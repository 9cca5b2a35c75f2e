// Package graph builds the cross-endpoint dependency graph from schema
// datasource references.
//
// A datasource such as "firewall.address.name" on field "srcaddr" of endpoint
// "firewall/policy" records the edge
//
//	firewall/policy --srcaddr--> firewall/address
//
// Every edge is stored on both of its endpoints: the source lists the target
// under DependsOn and the target lists the source under DependedBy, each with
// the same field set.
//
// # Construction
//
// Analyze extracts references from all schemas in parallel. Graph mutation is
// sharded by endpoint: each shard is owned by a single goroutine, and every
// reference is sent to the shard of its source and to the shard of its target.
// The graph is assembled only after all shards have drained, so callers never
// observe one half of an edge without the other.
//
// # Export
//
// Export returns a sorted, serializable view of the graph. It can be written
// as JSON, YAML, msgpack or SQLite and queried with JSONPath:
//
//	g, err := graph.Analyze(ctx, schemas)
//	if err != nil {
//		return err
//	}
//	if err := graph.WriteJSON(os.Stdout, g.Export()); err != nil {
//		return err
//	}
//
// Endpoints are identified by their canonical path without category, which is
// the form datasource strings use.
package graph
