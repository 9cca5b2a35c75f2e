package gen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/fortigen"
	"github.com/syssam/fortigen/compiler/load"
	"github.com/syssam/fortigen/naming"
)

// Generator renders and writes the client code of a set of endpoints.
type Generator struct {
	cfg *Config
	log *zap.Logger
}

// New returns a Generator configured by opts.
func New(opts ...Option) (*Generator, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, log: cfg.Logger.Named("gen")}, nil
}

// Config returns the generator configuration.
func (g *Generator) Config() *Config {
	return g.cfg
}

// Failure is an endpoint whose artifacts could not be produced.
type Failure struct {
	Endpoint string
	Err      error
}

// Result reports the outcome of a generation run. Endpoint lists hold
// category/path names; file lists hold slash-separated paths relative to the
// target directory. All lists are sorted.
type Result struct {
	// Generated lists the endpoints whose three artifacts were produced.
	Generated []string
	// Written lists the files created or replaced.
	Written []string
	// Unchanged lists the files whose content already matched.
	Unchanged []string
	// Stale lists, in check mode, the files that are missing or differ.
	Stale  []string
	Failed []Failure
}

// Files returns the number of files rendered.
func (r *Result) Files() int {
	return len(r.Written) + len(r.Unchanged) + len(r.Stale)
}

// Err joins the endpoint failures and, in check mode, an ErrStale error
// naming the stale files. It is nil for a clean run.
func (r *Result) Err() error {
	errs := make([]error, 0, len(r.Failed)+1)
	for _, f := range r.Failed {
		errs = append(errs, f.Err)
	}
	if len(r.Stale) > 0 {
		errs = append(errs, fmt.Errorf("%w: %d file(s): %v", ErrStale, len(r.Stale), r.Stale))
	}
	return errors.Join(errs...)
}

// task is the planned work of one endpoint.
type task struct {
	schema   *load.Schema
	paths    Paths
	contexts []*Context
	selected bool
	err      error
}

// outcome is the result of one task, stored in an indexed slot.
type outcome struct {
	written, unchanged, stale []string
	err                       error
}

// renderers maps artifact kinds to their renderer.
var renderers = map[Kind]func(*Context) ([]byte, error){
	KindImplementation: RenderImplementation,
	KindValidator:      RenderValidator,
	KindTypeStub:       RenderTypeStub,
}

// Generate renders the artifacts of every schema and writes those that
// changed. Endpoint failures are collected in the Result and never stop the
// run. The returned error is non-nil only if ctx is cancelled or the target
// directory cannot be created.
func (g *Generator) Generate(ctx context.Context, schemas []*load.Schema) (*Result, error) {
	if !g.cfg.Check {
		if err := os.MkdirAll(g.cfg.Target, 0o755); err != nil {
			return nil, fmt.Errorf("create target directory: %w", err)
		}
	}
	tasks := g.plan(schemas)
	outcomes := make([]outcome, len(tasks))

	var eg errgroup.Group
	eg.SetLimit(g.cfg.Workers)
	for i, t := range tasks {
		if !t.selected {
			continue
		}
		if t.err != nil {
			outcomes[i].err = t.err
			continue
		}
		eg.Go(func() error {
			if ctx.Err() != nil {
				outcomes[i].err = ctx.Err()
				return nil
			}
			outcomes[i] = g.run(t)
			return nil
		})
	}
	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{}
	for i, o := range outcomes {
		if !tasks[i].selected {
			continue
		}
		id := tasks[i].schema.ID()
		if o.err != nil {
			res.Failed = append(res.Failed, Failure{Endpoint: id, Err: o.err})
			g.log.Warn("endpoint failed", zap.String("endpoint", id), zap.Error(o.err))
			continue
		}
		res.Generated = append(res.Generated, id)
		res.Written = append(res.Written, o.written...)
		res.Unchanged = append(res.Unchanged, o.unchanged...)
		res.Stale = append(res.Stale, o.stale...)
	}
	sort.Strings(res.Generated)
	sort.Strings(res.Written)
	sort.Strings(res.Unchanged)
	sort.Strings(res.Stale)
	sort.Slice(res.Failed, func(i, j int) bool { return res.Failed[i].Endpoint < res.Failed[j].Endpoint })
	g.log.Info("generation finished",
		zap.Int("endpoints", len(res.Generated)),
		zap.Int("written", len(res.Written)),
		zap.Int("unchanged", len(res.Unchanged)),
		zap.Int("stale", len(res.Stale)),
		zap.Int("failed", len(res.Failed)),
	)
	return res, nil
}

// plan builds the contexts of every endpoint and claims its output paths and
// package-level identifiers. Endpoints are visited in name order, so on a
// collision of paths or class-derived names the lexicographically later
// endpoint fails. Enum types and constants are then named per package,
// taking a numeric suffix where they would clash with another endpoint.
// Every schema is planned, selected or not, so names never depend on Only.
func (g *Generator) plan(schemas []*load.Schema) []*task {
	sorted := make([]*load.Schema, len(schemas))
	copy(sorted, schemas)
	load.Sort(sorted)
	selected := make(map[*load.Schema]bool, len(sorted))
	for _, s := range load.Select(sorted, g.cfg.Only...) {
		selected[s] = true
	}

	// Owners of output paths and of package-level identifiers, keyed by
	// path and by "importpath.Ident".
	owners := make(map[string]string)
	// Fixed identifiers of each implementation package.
	fixed := make(map[string][]string)
	tasks := make([]*task, 0, len(sorted))
	for _, s := range sorted {
		t := &task{schema: s, paths: DerivePaths(s, g.cfg.Package), selected: selected[s]}
		tasks = append(tasks, t)
		var claims []string
		for _, kind := range Kinds {
			claims = append(claims, t.paths.File(kind))
			for _, ident := range fixedIdentifiers(s.ClassName, kind) {
				claims = append(claims, scope(t.paths, kind)+"."+ident)
			}
		}
		if t.err = g.claim(owners, s, claims); t.err != nil {
			continue
		}
		fixed[t.paths.ImportPath] = append(fixed[t.paths.ImportPath], classIdentifiers(s.ClassName)...)
	}

	idents := make(map[string]*naming.Uniquer, len(fixed))
	for pkg, names := range fixed {
		idents[pkg] = naming.NewUniquer(names...)
	}
	for _, t := range tasks {
		if t.err != nil {
			continue
		}
		impl := newContext(KindImplementation, t.schema, g.cfg, idents[t.paths.ImportPath])
		t.contexts = []*Context{impl, impl.forKind(KindValidator), impl.forKind(KindTypeStub)}
		var claims []string
		for _, kind := range Kinds {
			for _, ident := range impl.enumIdentifiers(kind) {
				claims = append(claims, scope(t.paths, kind)+"."+ident)
			}
		}
		t.err = g.claim(owners, t.schema, claims)
	}
	return tasks
}

// claim records s as the owner of claims, or fails if any is owned already.
func (g *Generator) claim(owners map[string]string, s *load.Schema, claims []string) error {
	for _, c := range claims {
		if owner, ok := owners[c]; ok {
			err := fortigen.NewOutputWriteError(s.ID(), c, "collides with "+owner, nil)
			g.log.Warn("output collision", zap.String("endpoint", s.ID()), zap.Error(err))
			return err
		}
	}
	for _, c := range claims {
		owners[c] = s.ID()
	}
	return nil
}

// scope returns the import path an artifact of kind declares its names in.
func scope(p Paths, kind Kind) string {
	if kind == KindValidator {
		return p.HelpersImportPath
	}
	return p.ImportPath
}

// run renders and stores the artifacts of one endpoint.
func (g *Generator) run(t *task) outcome {
	var o outcome
	for _, c := range t.contexts {
		src, err := renderers[c.Kind](c)
		if err != nil {
			o.err = err
			return o
		}
		rel := c.Paths.File(c.Kind)
		status, err := g.store(rel, src)
		if err != nil {
			o.err = fortigen.NewOutputWriteError(t.schema.ID(), rel, "write file", err)
			return o
		}
		switch status {
		case statusWritten:
			o.written = append(o.written, rel)
		case statusUnchanged:
			o.unchanged = append(o.unchanged, rel)
		case statusStale:
			o.stale = append(o.stale, rel)
		}
	}
	g.log.Debug("endpoint generated", zap.String("endpoint", t.schema.ID()))
	return o
}

type status int

const (
	statusWritten status = iota
	statusUnchanged
	statusStale
)

// store writes src to rel below the target unless the file already holds
// the same bytes. In check mode nothing is written.
func (g *Generator) store(rel string, src []byte) (status, error) {
	full := filepath.Join(g.cfg.Target, filepath.FromSlash(rel))
	old, err := os.ReadFile(full)
	switch {
	case err == nil && bytes.Equal(old, src):
		return statusUnchanged, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return 0, err
	case g.cfg.Check:
		return statusStale, nil
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(full, src, 0o644); err != nil {
		return 0, err
	}
	return statusWritten, nil
}
