package gen

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/fortigen/compiler/load"
)

const testModule = "example.com/fortios"

const customDoc = `{
	"category": "cmdb",
	"apiPath": "firewall.service/custom",
	"mkey": "name",
	"fields": {
		"name": {"type": "string", "required": true},
		"protocol": {"type": "option", "options": ["TCP", "UDP"], "required": true}
	}
}`

func mustParse(t *testing.T, doc, category, apiPath string) *load.Schema {
	t.Helper()
	s, err := load.Parse([]byte(doc), category, apiPath)
	require.NoError(t, err)
	return s
}

// corpusSchema loads a schema from the loader's test corpus.
func corpusSchema(t *testing.T, apiPath string) *load.Schema {
	t.Helper()
	file := filepath.Join("..", "load", "testdata", "corpus", "cmdb", filepath.FromSlash(apiPath))
	for _, ext := range []string{".json", ".yaml"} {
		if s, err := load.LoadFile(file+ext, "cmdb", apiPath); err == nil {
			return s
		}
	}
	t.Fatalf("no schema for %s", apiPath)
	return nil
}

func testConfig(t *testing.T, opts ...Option) *Config {
	t.Helper()
	base := []Option{WithTarget(t.TempDir()), WithPackage(testModule)}
	c, err := NewConfig(append(base, opts...)...)
	require.NoError(t, err)
	return c
}

// requireGo fails the test unless src parses as a Go file.
func requireGo(t *testing.T, src []byte) {
	t.Helper()
	_, err := parser.ParseFile(token.NewFileSet(), "", src, parser.AllErrors|parser.ParseComments)
	require.NoError(t, err, "generated source:\n%s", src)
}
