package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/fortigen"
	"github.com/syssam/fortigen/compiler/gen"
	"github.com/syssam/fortigen/graph"
	"github.com/syssam/fortigen/report"
)

const corpus = "load/testdata/corpus"

func options(t *testing.T) Options {
	t.Helper()
	return Options{
		Schemas: corpus,
		Target:  t.TempDir(),
		Package: "example.com/fortios",
		Workers: 2,
	}
}

func TestRun(t *testing.T) {
	o := options(t)
	o.GraphOut = filepath.Join(t.TempDir(), "graph.json")

	sum, err := Run(context.Background(), o)
	require.NoError(t, err)

	assert.Equal(t, 5, sum.Files)
	assert.Equal(t, 4, sum.Loaded)
	assert.Equal(t, 4, sum.Generated)
	assert.Equal(t, 12, sum.Written)
	require.Len(t, sum.Skipped, 1)
	assert.Contains(t, sum.Skipped[0].Name, "broken.json")
	assert.ErrorIs(t, sum.Err(), report.ErrIncomplete)

	require.NotNil(t, sum.Graph)
	f, err := os.Open(o.GraphOut)
	require.NoError(t, err)
	defer f.Close()
	exported, err := graph.ReadJSON(f)
	require.NoError(t, err)
	assert.Len(t, exported, sum.Graph.Endpoints)
	assert.Contains(t, exported["firewall/policy"].DependsOn, "firewall/address")

	assert.FileExists(t, filepath.Join(o.Target, "cmdb", "firewall", "service", "custom.go"))
	assert.FileExists(t, filepath.Join(o.Target, "cmdb", "system", "helpers", "global.go"))

	t.Run("second run is a no-op", func(t *testing.T) {
		again, err := Run(context.Background(), Options{Schemas: o.Schemas, Target: o.Target, Package: o.Package})
		require.NoError(t, err)
		assert.Zero(t, again.Written)
		assert.Equal(t, 12, again.Unchanged)
	})

	t.Run("check mode agrees", func(t *testing.T) {
		checked, err := Run(context.Background(), Options{Schemas: o.Schemas, Target: o.Target, Package: o.Package, Check: true})
		require.NoError(t, err)
		assert.Empty(t, checked.Stale)
	})
}

func TestRunOnly(t *testing.T) {
	o := options(t)
	o.Only = []string{"firewall/service"}

	sum, err := Run(context.Background(), o)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Loaded)
	assert.Equal(t, 1, sum.Generated)
	assert.Equal(t, 3, sum.Written)
	assert.NoFileExists(t, filepath.Join(o.Target, "cmdb", "firewall", "policy.go"))
}

func TestRunOnlyKeepsGraph(t *testing.T) {
	full := options(t)
	_, err := Run(context.Background(), full)
	require.NoError(t, err)

	only := options(t)
	only.Only = []string{"firewall/address"}
	_, err = Run(context.Background(), only)
	require.NoError(t, err)

	rel := filepath.Join("cmdb", "firewall", "address.go")
	want, err := os.ReadFile(filepath.Join(full.Target, rel))
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(only.Target, rel))
	require.NoError(t, err)
	assert.Contains(t, string(got), "Depended on by: firewall/policy.")
	assert.Equal(t, string(want), string(got))
}

func TestRunFatal(t *testing.T) {
	t.Run("missing corpus", func(t *testing.T) {
		o := options(t)
		o.Schemas = filepath.Join(t.TempDir(), "nope")
		_, err := Run(context.Background(), o)
		assert.True(t, fortigen.IsDownloadError(err))
	})

	t.Run("empty corpus", func(t *testing.T) {
		o := options(t)
		o.Schemas = t.TempDir()
		_, err := Run(context.Background(), o)
		assert.ErrorIs(t, err, fortigen.ErrEmptyCorpus)
	})

	t.Run("bad options", func(t *testing.T) {
		o := options(t)
		o.Package = ""
		_, err := Run(context.Background(), o)
		assert.True(t, gen.IsConfigError(err))
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Run(ctx, options(t))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAnalyze(t *testing.T) {
	c, g, err := Analyze(context.Background(), Options{Schemas: corpus})
	require.NoError(t, err)
	assert.Len(t, c.Schemas, 4)
	assert.Contains(t, g.DependsOn("firewall/policy"), "firewall/address")
}
