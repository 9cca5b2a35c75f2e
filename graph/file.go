package graph

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format names an export encoding.
type Format string

// Export formats.
const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
	FormatSQLite  Format = "sqlite"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatMsgpack, FormatSQLite}

// FormatOf infers the format from a file extension. Unknown extensions
// default to JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".msgpack", ".mp":
		return FormatMsgpack
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatJSON
	}
}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("graph: unknown export format %q (want one of %v)", name, Formats)
}

// Write encodes e to w. SQLite needs a file and is rejected.
func Write(w io.Writer, f Format, e Export) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, e)
	case FormatYAML:
		return WriteYAML(w, e)
	case FormatMsgpack:
		return WriteMsgpack(w, e)
	default:
		return fmt.Errorf("graph: format %q cannot be streamed", f)
	}
}

// WriteFile writes e to path in the given format, creating parent
// directories as needed.
func WriteFile(ctx context.Context, path string, f Format, e Export) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("graph: create directory for %s: %w", path, err)
	}
	if f == FormatSQLite {
		return WriteSQLite(ctx, path, e)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("graph: create %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("graph: close %s: %w", path, cerr)
		}
	}()
	return Write(out, f, e)
}
