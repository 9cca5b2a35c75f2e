package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/fortigen/compiler/gen"
	"github.com/syssam/fortigen/compiler/load"
	"github.com/syssam/fortigen/graph"
)

func TestNew(t *testing.T) {
	s := New()
	_, err := uuid.Parse(s.RunID)
	require.NoError(t, err)
	assert.NotEqual(t, s.RunID, New().RunID)
	assert.True(t, s.Ok())
	assert.NoError(t, s.Err())
}

func TestSummaryAdd(t *testing.T) {
	s := New()
	s.AddCorpus(&load.Corpus{
		Files:   3,
		Schemas: []*load.Schema{{Category: "cmdb", Path: "firewall/address"}, {Category: "cmdb", Path: "firewall/policy"}},
		Skipped: []load.Skip{{File: "cmdb/firewall/broken.json", Err: errors.New("bad json")}},
	})
	s.AddResult(&gen.Result{
		Generated: []string{"cmdb/firewall/address"},
		Written:   []string{"a.go", "b.go"},
		Unchanged: []string{"c.go"},
		Failed:    []gen.Failure{{Endpoint: "cmdb/firewall/policy", Err: errors.New("disk full")}},
	})

	assert.Equal(t, 3, s.Files)
	assert.Equal(t, 2, s.Loaded)
	assert.Equal(t, 1, s.Generated)
	assert.Equal(t, 2, s.Written)
	assert.Equal(t, 1, s.Unchanged)
	assert.Equal(t, []Entry{{Name: "cmdb/firewall/broken.json", Reason: "bad json"}}, s.Skipped)
	assert.Equal(t, []Entry{{Name: "cmdb/firewall/policy", Reason: "disk full"}}, s.Failed)

	assert.False(t, s.Ok())
	err := s.Err()
	require.ErrorIs(t, err, ErrIncomplete)
	assert.Contains(t, err.Error(), "skipped cmdb/firewall/broken.json: bad json")
	assert.Contains(t, err.Error(), "failed cmdb/firewall/policy: disk full")
}

func TestSummaryStale(t *testing.T) {
	s := New()
	s.Check = true
	s.AddResult(&gen.Result{Generated: []string{"x"}, Stale: []string{"cmdb/x.go"}})
	assert.ErrorIs(t, s.Err(), ErrIncomplete)
	assert.Contains(t, s.Err().Error(), "1 stale file(s)")
}

func TestSummaryGraph(t *testing.T) {
	schemas := []*load.Schema{
		{Category: "cmdb", Path: "firewall/policy", Fields: []*load.Field{
			{Name: "srcaddr", Datasources: []string{"firewall.address.name", "nodot"}},
		}},
		{Category: "cmdb", Path: "firewall/address"},
	}
	g, err := graph.Analyze(t.Context(), schemas)
	require.NoError(t, err)

	s := New()
	s.AddGraph(g, 5)
	require.NotNil(t, s.Graph)
	assert.Equal(t, 2, s.Graph.Endpoints)
	assert.Equal(t, 1, s.Graph.Edges)
	assert.Len(t, s.Unresolved, len(g.Unresolved))
	assert.True(t, s.Ok(), "unresolved datasources are warnings")
}

func TestRender(t *testing.T) {
	s := &Summary{
		RunID:     "run-1",
		Files:     5,
		Loaded:    4,
		Generated: 4,
		Written:   10,
		Unchanged: 2,
		Skipped:   []Entry{{Name: "cmdb/firewall/broken.json", Reason: "unexpected EOF"}},
		Graph:     &graph.Stats{Endpoints: 4, Edges: 3},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s, false))
	expected := `fortigen run run-1
  loaded     4 of 5 schema files
  generated  4 endpoints (10 written, 2 unchanged)
  skipped    1
  failed     0
  graph      4 endpoints, 3 edges, 0 cycles, 0 unresolved

skipped
  cmdb/firewall/broken.json: unexpected EOF

FAIL
`
	assert.Equal(t, expected, buf.String())

	t.Run("check mode ok", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, &Summary{RunID: "r", Check: true, Generated: 1, Unchanged: 3}, false))
		assert.Contains(t, buf.String(), "checked    1 endpoints (3 up to date, 0 stale)")
		assert.Contains(t, buf.String(), "\nok\n")
	})

	t.Run("styled keeps the text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, s, true))
		assert.Contains(t, buf.String(), "cmdb/firewall/broken.json: unexpected EOF")
	})
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
