package graph

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"runtime"
	"slices"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/fortigen"
	"github.com/syssam/fortigen/compiler/load"
)

// Graph is the dependency graph of a schema corpus. It is immutable once
// returned by Analyze.
type Graph struct {
	nodes map[string]*node
	// Unresolved lists the datasources that could not be parsed, sorted by
	// endpoint, field and datasource.
	Unresolved []*fortigen.UnresolvableDatasourceError
}

// node holds both sides of the edges touching one endpoint.
type node struct {
	dependsOn  map[string]set // target -> source fields
	dependedBy map[string]set // source -> source fields
}

type set map[string]struct{}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func newNode() *node {
	return &node{dependsOn: map[string]set{}, dependedBy: map[string]set{}}
}

// Edge is a dependency from Source to Target through the listed source fields.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Fields []string `json:"fields"`
}

// Option configures Analyze.
type Option func(*options)

type options struct {
	workers int
	shards  int
	log     *zap.Logger
}

// WithWorkers bounds the number of schemas scanned concurrently.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithShards sets the number of single-writer shards.
func WithShards(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.shards = n
		}
	}
}

// WithLogger sets the logger used to report unresolved datasources.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

type direction uint8

const (
	outgoing direction = iota // owner depends on other
	incoming                  // owner is depended on by other
	register                  // owner exists, no edge
)

// mutation is one half of an edge, applied by the shard owning the endpoint.
type mutation struct {
	dir   direction
	owner string
	other string
	field string
}

type shard struct {
	in    chan mutation
	nodes map[string]*node
}

func (s *shard) run() {
	for m := range s.in {
		n, ok := s.nodes[m.owner]
		if !ok {
			n = newNode()
			s.nodes[m.owner] = n
		}
		var side map[string]set
		switch m.dir {
		case outgoing:
			side = n.dependsOn
		case incoming:
			side = n.dependedBy
		default:
			continue
		}
		fields, ok := side[m.other]
		if !ok {
			fields = set{}
			side[m.other] = fields
		}
		fields[m.field] = struct{}{}
	}
}

// Analyze builds the dependency graph of schemas. Every schema becomes a
// node, as does every endpoint referenced by a datasource. Datasources that
// cannot be parsed are recorded in Graph.Unresolved and otherwise ignored.
func Analyze(ctx context.Context, schemas []*load.Schema, opts ...Option) (*Graph, error) {
	o := options{workers: runtime.GOMAXPROCS(0), log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.shards == 0 {
		o.shards = o.workers
	}

	shards := make([]*shard, o.shards)
	var wg sync.WaitGroup
	for i := range shards {
		shards[i] = &shard{in: make(chan mutation, 256), nodes: map[string]*node{}}
		wg.Add(1)
		go func(s *shard) {
			defer wg.Done()
			s.run()
		}(shards[i])
	}
	owner := func(endpoint string) *shard {
		h := fnv.New32a()
		_, _ = h.Write([]byte(endpoint))
		return shards[h.Sum32()%uint32(len(shards))]
	}

	unresolved := make([][]*fortigen.UnresolvableDatasourceError, len(schemas))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.workers)
	for i, s := range schemas {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			send := func(m mutation) error {
				select {
				case owner(m.owner).in <- m:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			if err := send(mutation{dir: register, owner: s.Path}); err != nil {
				return err
			}
			for _, f := range s.Fields {
				for _, ds := range f.Datasources {
					target, err := ParseDatasource(ds)
					if err != nil {
						var ue *fortigen.UnresolvableDatasourceError
						if errors.As(err, &ue) {
							ue.Endpoint, ue.Field = s.Path, f.Name
							unresolved[i] = append(unresolved[i], ue)
						}
						continue
					}
					if err := send(mutation{dir: outgoing, owner: s.Path, other: target.Endpoint, field: f.Name}); err != nil {
						return err
					}
					if err := send(mutation{dir: incoming, owner: target.Endpoint, other: s.Path, field: f.Name}); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}
	err := eg.Wait()
	for _, s := range shards {
		close(s.in)
	}
	wg.Wait()
	if err != nil {
		return nil, err
	}

	g := &Graph{nodes: map[string]*node{}}
	for _, s := range shards {
		for name, n := range s.nodes {
			g.nodes[name] = n
		}
	}
	for _, list := range unresolved {
		g.Unresolved = append(g.Unresolved, list...)
	}
	sort.SliceStable(g.Unresolved, func(i, j int) bool {
		a, b := g.Unresolved[i], g.Unresolved[j]
		if a.Endpoint != b.Endpoint {
			return a.Endpoint < b.Endpoint
		}
		if a.Field != b.Field {
			return a.Field < b.Field
		}
		return a.Datasource < b.Datasource
	})
	for _, ue := range g.Unresolved {
		o.log.Warn("unresolved datasource",
			zap.String("endpoint", ue.Endpoint),
			zap.String("field", ue.Field),
			zap.String("datasource", ue.Datasource),
		)
	}
	return g, nil
}

// Has reports whether endpoint is a node of the graph.
func (g *Graph) Has(endpoint string) bool {
	_, ok := g.nodes[endpoint]
	return ok
}

// Endpoints returns all nodes, sorted.
func (g *Graph) Endpoints() []string {
	out := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DependsOn returns the endpoints that endpoint references, sorted.
func (g *Graph) DependsOn(endpoint string) []string {
	n, ok := g.nodes[endpoint]
	if !ok {
		return nil
	}
	return keys(n.dependsOn)
}

// DependedBy returns the endpoints that reference endpoint, sorted.
func (g *Graph) DependedBy(endpoint string) []string {
	n, ok := g.nodes[endpoint]
	if !ok {
		return nil
	}
	return keys(n.dependedBy)
}

// Fields returns the fields of source that reference target, sorted.
func (g *Graph) Fields(source, target string) []string {
	n, ok := g.nodes[source]
	if !ok {
		return nil
	}
	fields, ok := n.dependsOn[target]
	if !ok {
		return nil
	}
	return fields.sorted()
}

// Edges returns every edge, sorted by source then target.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, source := range g.Endpoints() {
		n := g.nodes[source]
		for _, target := range keys(n.dependsOn) {
			edges = append(edges, Edge{Source: source, Target: target, Fields: n.dependsOn[target].sorted()})
		}
	}
	return edges
}

// CheckSymmetry verifies that every edge is recorded on both endpoints with
// the same field set.
func (g *Graph) CheckSymmetry() error {
	var errs []error
	for _, a := range g.Endpoints() {
		na := g.nodes[a]
		for _, b := range keys(na.dependsOn) {
			if err := g.mirror(b, na.dependsOn[b], func(nb *node) set { return nb.dependedBy[a] }); err != nil {
				errs = append(errs, fmt.Errorf("%s depends on %s: %w", a, b, err))
			}
		}
		for _, b := range keys(na.dependedBy) {
			if err := g.mirror(b, na.dependedBy[b], func(nb *node) set { return nb.dependsOn[a] }); err != nil {
				errs = append(errs, fmt.Errorf("%s depended by %s: %w", a, b, err))
			}
		}
	}
	return errors.Join(errs...)
}

// mirror compares fields with the opposite side of the edge stored on b.
func (g *Graph) mirror(b string, fields set, other func(*node) set) error {
	nb, ok := g.nodes[b]
	if !ok {
		return fmt.Errorf("missing node %s", b)
	}
	got := other(nb)
	if got == nil {
		return fmt.Errorf("no mirrored edge")
	}
	if want, have := fields.sorted(), got.sorted(); !slices.Equal(want, have) {
		return fmt.Errorf("fields %v, mirrored %v", want, have)
	}
	return nil
}

func keys(m map[string]set) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
