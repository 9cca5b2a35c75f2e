package main

import (
	"context"
	"io"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/syssam/fortigen/compiler"
	"github.com/syssam/fortigen/report"
)

// corpusFlags are shared by every command that reads the schema corpus.
func corpusFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "schemas",
			Aliases: []string{"s"},
			Usage:   "schema corpus root directory",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"j"},
			Usage:   "parallel workers (default: number of CPUs)",
		},
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate the client code",
		Flags: append(corpusFlags(),
			&cli.StringSliceFlag{
				Name:  "only",
				Usage: "generate only endpoints whose category/path or path starts with `PREFIX`",
			},
			&cli.StringFlag{
				Name:    "target",
				Aliases: []string{"o"},
				Usage:   "output directory",
			},
			&cli.StringFlag{
				Name:    "package",
				Aliases: []string{"p"},
				Usage:   "import path of the output directory",
			},
			&cli.StringFlag{
				Name:  "timestamp",
				Usage: "RFC 3339 time or Unix seconds to write into file headers",
			},
			&cli.BoolFlag{
				Name:  "check",
				Usage: "report stale files without writing",
			},
			&cli.StringFlag{
				Name:  "graph-out",
				Usage: "also export the dependency graph to `FILE` (.json, .yaml, .msgpack, .db)",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "regenerate whenever a schema changes",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "quiet period before regenerating in watch mode",
				Value: 300 * time.Millisecond,
			},
		),
		Action: runGenerate,
	}
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	opts, err := pipelineOptions(cfg, log)
	if err != nil {
		return err
	}
	if cmd.Bool("watch") {
		return watch(ctx, opts.Schemas, cmd.Duration("debounce"), log, func(ctx context.Context) {
			if err := generateOnce(ctx, stdout(cmd), opts); err != nil {
				log.Error("generation failed", zap.Error(err))
			}
		})
	}
	return generateOnce(ctx, stdout(cmd), opts)
}

// generateOnce runs the pipeline and prints its summary to w.
func generateOnce(ctx context.Context, w io.Writer, opts compiler.Options) error {
	sum, err := compiler.Run(ctx, opts)
	if err != nil {
		return err
	}
	if err := report.Render(w, sum, report.IsTerminal(w)); err != nil {
		return err
	}
	return sum.Err()
}
