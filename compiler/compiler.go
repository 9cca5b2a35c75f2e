// Package compiler wires the fortigen pipeline together: load the schema
// corpus, analyze its datasource graph and generate the client code.
package compiler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/syssam/fortigen/compiler/gen"
	"github.com/syssam/fortigen/compiler/load"
	"github.com/syssam/fortigen/graph"
	"github.com/syssam/fortigen/report"
)

// Options configures a pipeline run.
type Options struct {
	// Schemas is the corpus root, laid out as <category>/<path segments>.<ext>.
	Schemas string
	// Target and Package are the output directory and its import path.
	Target  string
	Package string
	Version string
	// Timestamp is written into file headers when set.
	Timestamp *time.Time
	// Only restricts generation to endpoints matching one of the prefixes.
	// The graph always covers the whole corpus.
	Only    []string
	Workers int
	Check   bool
	// GraphOut, when set, receives the dependency graph export. The format
	// follows the file extension.
	GraphOut string
	// TopN bounds the rankings in graph statistics.
	TopN   int
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Analyze loads the whole corpus and builds its dependency graph. Missing or
// empty corpora are fatal; unparseable documents are recorded in the corpus.
// Options.Only is not applied here.
func Analyze(ctx context.Context, o Options) (*load.Corpus, *graph.Graph, error) {
	log := o.logger()
	lopts := []load.CorpusOption{load.WithLogger(log)}
	gopts := []graph.Option{graph.WithLogger(log)}
	if o.Workers > 0 {
		lopts = append(lopts, load.WithWorkers(o.Workers))
		gopts = append(gopts, graph.WithWorkers(o.Workers))
	}
	corpus, err := load.LoadCorpus(ctx, o.Schemas, lopts...)
	if err != nil {
		return nil, nil, err
	}
	g, err := graph.Analyze(ctx, corpus.Schemas, gopts...)
	if err != nil {
		return nil, nil, err
	}
	return corpus, g, nil
}

// Run executes the whole pipeline and returns its summary. The error is
// reserved for fatal conditions: bad options, a missing or empty corpus, an
// unwritable graph export or cancellation. Per-file problems are reported
// through Summary.Err.
func Run(ctx context.Context, o Options) (*report.Summary, error) {
	start := time.Now()
	log := o.logger()
	sum := report.New()
	sum.Check = o.Check
	log = log.With(zap.String("run", sum.RunID))
	o.Logger = log

	opts := []gen.Option{
		gen.WithTarget(o.Target),
		gen.WithPackage(o.Package),
		gen.WithCheck(o.Check),
		gen.WithOnly(o.Only...),
		gen.WithLogger(log),
	}
	if o.Version != "" {
		opts = append(opts, gen.WithVersion(o.Version))
	}
	if o.Timestamp != nil {
		opts = append(opts, gen.WithTimestamp(*o.Timestamp))
	}
	if o.Workers > 0 {
		opts = append(opts, gen.WithWorkers(o.Workers))
	}
	// Validate generator options before touching the corpus.
	if _, err := gen.NewConfig(opts...); err != nil {
		return nil, err
	}

	corpus, g, err := Analyze(ctx, o)
	if err != nil {
		return nil, err
	}
	sum.AddCorpus(corpus)
	topN := o.TopN
	if topN <= 0 {
		topN = 5
	}
	sum.AddGraph(g, topN)

	if o.GraphOut != "" {
		if err := graph.WriteFile(ctx, o.GraphOut, graph.FormatOf(o.GraphOut), g.Export()); err != nil {
			return nil, err
		}
		log.Info("graph exported", zap.String("path", o.GraphOut))
	}

	generator, err := gen.New(append(opts, gen.WithGraph(g))...)
	if err != nil {
		return nil, err
	}
	res, err := generator.Generate(ctx, corpus.Schemas)
	if err != nil {
		return nil, err
	}
	sum.AddResult(res)
	sum.Elapsed = time.Since(start)
	return sum, nil
}
