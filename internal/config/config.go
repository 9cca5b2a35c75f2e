// Package config loads the fortigen CLI configuration.
//
// Sources are layered, later ones winning:
//  1. built-in defaults
//  2. an optional YAML file (fortigen.yaml by default)
//  3. FORTIGEN_* environment variables
//  4. command-line flags
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultFile is read when no configuration file is named explicitly.
const DefaultFile = "fortigen.yaml"

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "FORTIGEN_"

// Config is the CLI configuration.
type Config struct {
	// Schemas is the schema corpus root.
	Schemas string `koanf:"schemas" validate:"required"`
	// Target is the output directory.
	Target string `koanf:"target" validate:"required"`
	// Package is the import path of Target. Only generation needs it.
	Package string `koanf:"package" validate:"omitempty,importpath"`
	// Version overrides the version tag written into file headers.
	Version string `koanf:"version" validate:"singleline"`
	// Timestamp is an RFC 3339 time or Unix seconds written into file
	// headers. Empty omits it; SOURCE_DATE_EPOCH is used as a fallback.
	Timestamp string   `koanf:"timestamp"`
	Only      []string `koanf:"only"`
	Workers   int      `koanf:"workers" validate:"gte=0"`
	Check     bool     `koanf:"check"`
	// GraphOut receives the dependency graph export when set.
	GraphOut string    `koanf:"graph_out"`
	TopN     int       `koanf:"top_n" validate:"gte=1"`
	Log      LogConfig `koanf:"log"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=console json"`
}

// Options selects the sources Load reads.
type Options struct {
	// File is the YAML configuration file. A missing DefaultFile is not an
	// error; a missing explicit file is.
	File string
	// Overrides are flag values keyed by koanf path, e.g. "log.level".
	Overrides map[string]any
	// Environ replaces os.Environ, mainly for tests.
	Environ func() []string
}

func defaults() map[string]any {
	return map[string]any{
		"schemas":    "schemas",
		"target":     "output",
		"workers":    0,
		"check":      false,
		"top_n":      5,
		"log.level":  "info",
		"log.format": "console",
	}
}

// Load builds and validates the configuration.
func Load(o Options) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	path := o.File
	if path == "" {
		path = DefaultFile
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if o.File != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	environ := o.Environ
	if environ == nil {
		environ = os.Environ
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
		EnvironFunc:   environ,
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	if len(o.Overrides) > 0 {
		if err := k.Load(confmap.Provider(o.Overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("config: load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if cfg.Timestamp == "" {
		cfg.Timestamp = lookupEnv(environ, "SOURCE_DATE_EPOCH")
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps FORTIGEN_LOG_LEVEL to log.level and FORTIGEN_GRAPH_OUT to
// graph_out. FORTIGEN_ONLY is a comma-separated list.
func envKey(k, v string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "log_"); ok {
		return "log." + rest, v
	}
	if key == "only" {
		var list []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				list = append(list, p)
			}
		}
		return key, list
	}
	return key, v
}

func lookupEnv(environ func() []string, name string) string {
	for _, kv := range environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k == name {
			return v
		}
	}
	return ""
}

// TimestampValue parses Timestamp. It returns nil when no timestamp is set.
func (c *Config) TimestampValue() (*time.Time, error) {
	if c.Timestamp == "" {
		return nil, nil
	}
	if secs, err := strconv.ParseInt(c.Timestamp, 10, 64); err == nil {
		t := time.Unix(secs, 0).UTC()
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, c.Timestamp)
	if err != nil {
		return nil, &FieldError{Field: "timestamp", Message: "timestamp must be RFC 3339 or Unix seconds", Value: c.Timestamp}
	}
	t = t.UTC()
	return &t, nil
}
