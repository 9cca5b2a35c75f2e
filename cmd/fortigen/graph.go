package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/syssam/fortigen/compiler"
	"github.com/syssam/fortigen/graph"
)

func graphCommand() *cli.Command {
	return &cli.Command{
		Name:  "graph",
		Usage: "Inspect the datasource dependency graph",
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Write the graph as JSON, YAML, MessagePack or SQLite",
				Flags: append(corpusFlags(),
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "output `FILE` (default: stdout)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "json, yaml, msgpack or sqlite (default: from the file extension)",
					},
				),
				Action: runGraphExport,
			},
			{
				Name:  "stats",
				Usage: "Print graph statistics",
				Flags: append(corpusFlags(),
					&cli.IntFlag{
						Name:  "top",
						Usage: "length of the ranking lists",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "print JSON",
					},
				),
				Action: runGraphStats,
			},
			{
				Name:      "query",
				Usage:     "Evaluate a JSONPath expression against the graph export",
				ArgsUsage: "<jsonpath>",
				Flags:     corpusFlags(),
				Action:    runGraphQuery,
			},
		},
	}
}

// analyze loads the corpus and builds its graph with the CLI configuration.
func analyze(ctx context.Context, cmd *cli.Command) (*graph.Graph, int, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, 0, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = log.Sync() }()

	corpus, g, err := compiler.Analyze(ctx, compiler.Options{
		Schemas: cfg.Schemas,
		Workers: cfg.Workers,
		Logger:  log,
	})
	if err != nil {
		return nil, 0, err
	}
	for _, sk := range corpus.Skipped {
		log.Warn("schema skipped", zap.String("file", sk.File), zap.Error(sk.Err))
	}
	return g, cfg.TopN, nil
}

func runGraphExport(ctx context.Context, cmd *cli.Command) error {
	g, _, err := analyze(ctx, cmd)
	if err != nil {
		return err
	}
	out := cmd.String("out")
	format := graph.FormatJSON
	if out != "" {
		format = graph.FormatOf(out)
	}
	if name := cmd.String("format"); name != "" {
		if format, err = graph.ParseFormat(name); err != nil {
			return err
		}
	}
	if out == "" {
		return graph.Write(stdout(cmd), format, g.Export())
	}
	return graph.WriteFile(ctx, out, format, g.Export())
}

func runGraphStats(ctx context.Context, cmd *cli.Command) error {
	g, topN, err := analyze(ctx, cmd)
	if err != nil {
		return err
	}
	stats := g.Stats(topN)
	w := stdout(cmd)
	if cmd.Bool("json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	return printStats(w, stats, g)
}

func printStats(w io.Writer, s graph.Stats, g *graph.Graph) error {
	fmt.Fprintf(w, "endpoints   %d\n", s.Endpoints)
	fmt.Fprintf(w, "edges       %d (%d field references)\n", s.Edges, s.References)
	fmt.Fprintf(w, "isolated    %d\n", s.Isolated)
	fmt.Fprintf(w, "cycles      %d\n", s.Cycles)
	fmt.Fprintf(w, "unresolved  %d\n", s.Unresolved)
	ranking := func(title string, counts []graph.Count) {
		if len(counts) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%s\n", title)
		for _, c := range counts {
			fmt.Fprintf(w, "  %4d  %s\n", c.Count, c.Endpoint)
		}
	}
	ranking("most depended on", s.MostDependedBy)
	ranking("most dependencies", s.MostDependsOn)
	for _, cycle := range g.Cycles() {
		fmt.Fprintf(w, "\ncycle: %v\n", cycle)
	}
	_, err := fmt.Fprintln(w)
	return err
}

func runGraphQuery(ctx context.Context, cmd *cli.Command) error {
	expr := cmd.Args().First()
	if expr == "" {
		return fmt.Errorf("graph query: missing JSONPath expression")
	}
	g, _, err := analyze(ctx, cmd)
	if err != nil {
		return err
	}
	matches, err := graph.Query(g.Export(), expr)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(stdout(cmd))
	for _, m := range matches {
		if err := enc.Encode(m); err != nil {
			return err
		}
	}
	return nil
}

// stdout returns the output writer of the application.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
