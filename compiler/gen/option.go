package gen

import (
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/syssam/fortigen/graph"
)

// RuntimePackage is the import path of the package generated code depends on.
const RuntimePackage = "github.com/syssam/fortigen"

// Config holds the generator configuration.
type Config struct {
	// Target is the output root directory.
	Target string
	// Package is the import path of Target, e.g. "github.com/acme/fortios".
	Package string
	// Version is the generator version tag written into every file header.
	Version string
	// Timestamp is written into file headers when set. Leaving it nil keeps
	// regeneration byte-identical.
	Timestamp *time.Time
	// Workers bounds the number of endpoints rendered concurrently.
	Workers int
	// Check renders and compares without writing.
	Check bool
	// Only restricts rendering to endpoints matching one of the prefixes.
	// Names are still planned over every schema, so the output of a
	// filtered run matches a full run.
	Only []string
	// Graph, when set, annotates generated documentation with neighbours.
	Graph *graph.Graph
	// Logger receives per-endpoint diagnostics.
	Logger *zap.Logger
}

// Option configures code generation.
type Option func(*Config) error

// NewConfig returns a Config with defaults applied and opts validated.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Version: "dev",
		Workers: runtime.GOMAXPROCS(0),
		Logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.Target == "" {
		return nil, NewConfigError("Target", nil, "target directory is required")
	}
	if c.Package == "" {
		return nil, NewConfigError("Package", nil, "import path of the target is required")
	}
	return c, nil
}

// WithTarget sets the output root directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithPackage sets the import path of the output root.
// For example: "github.com/acme/fortios".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		pkg = strings.TrimSuffix(pkg, "/")
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		if strings.ContainsAny(pkg, " \t\\") {
			return NewConfigError("Package", pkg, "invalid import path")
		}
		c.Package = pkg
		return nil
	}
}

// WithVersion sets the generator version tag.
func WithVersion(v string) Option {
	return func(c *Config) error {
		if strings.ContainsAny(v, "\r\n") {
			return NewConfigError("Version", v, "version must be a single line")
		}
		c.Version = v
		return nil
	}
}

// WithTimestamp writes t, in UTC, into file headers.
func WithTimestamp(t time.Time) Option {
	return func(c *Config) error {
		utc := t.UTC()
		c.Timestamp = &utc
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithCheck enables check mode: files are rendered and compared, never written.
func WithCheck(check bool) Option {
	return func(c *Config) error {
		c.Check = check
		return nil
	}
}

// WithOnly renders only the endpoints whose "category/path" or path starts
// with one of the prefixes.
func WithOnly(prefixes ...string) Option {
	return func(c *Config) error {
		c.Only = append(c.Only, prefixes...)
		return nil
	}
}

// WithGraph sets the dependency graph used for documentation.
func WithGraph(g *graph.Graph) Option {
	return func(c *Config) error {
		c.Graph = g
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}
