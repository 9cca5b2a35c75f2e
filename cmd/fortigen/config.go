package main

import (
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/syssam/fortigen/compiler"
	"github.com/syssam/fortigen/internal/config"
	"github.com/syssam/fortigen/internal/logging"
)

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"schemas":    "schemas",
	"target":     "target",
	"package":    "package",
	"timestamp":  "timestamp",
	"workers":    "workers",
	"check":      "check",
	"only":       "only",
	"graph-out":  "graph_out",
	"top":        "top_n",
}

// loadConfig merges defaults, the configuration file, the environment and
// every flag set on the command line.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	overrides := map[string]any{}
	for flag, key := range flagKeys {
		if !cmd.IsSet(flag) {
			continue
		}
		switch flag {
		case "workers", "top":
			overrides[key] = int(cmd.Int(flag))
		case "check":
			overrides[key] = cmd.Bool(flag)
		case "only":
			overrides[key] = cmd.StringSlice(flag)
		default:
			overrides[key] = cmd.String(flag)
		}
	}
	return config.Load(config.Options{File: cmd.String("config"), Overrides: overrides})
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log.Level, cfg.Log.Format)
}

// pipelineOptions converts the CLI configuration into pipeline options.
func pipelineOptions(cfg *config.Config, log *zap.Logger) (compiler.Options, error) {
	ts, err := cfg.TimestampValue()
	if err != nil {
		return compiler.Options{}, err
	}
	return compiler.Options{
		Schemas:   cfg.Schemas,
		Target:    cfg.Target,
		Package:   cfg.Package,
		Version:   firstNonEmpty(cfg.Version, version),
		Timestamp: ts,
		Only:      cfg.Only,
		Workers:   cfg.Workers,
		Check:     cfg.Check,
		GraphOut:  cfg.GraphOut,
		TopN:      cfg.TopN,
		Logger:    log,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
