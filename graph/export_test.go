package graph

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/syssam/fortigen/compiler/load"
)

func policyGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := Analyze(context.Background(), []*load.Schema{
		schema("firewall/policy", ref("srcaddr", "firewall.address.name")),
	})
	require.NoError(t, err)
	return g
}

func TestExport(t *testing.T) {
	want := Export{
		"firewall/policy": {
			DependsOn:  []string{"firewall/address"},
			DependedBy: []string{},
			Fields:     map[string][]string{"firewall/address": {"srcaddr"}},
		},
		"firewall/address": {
			DependsOn:  []string{},
			DependedBy: []string{"firewall/policy"},
			Fields:     map[string][]string{},
		},
	}
	if diff := cmp.Diff(want, policyGraph(t).Export()); diff != "" {
		t.Errorf("Export() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, policyGraph(t).Export()))

	const want = `{
  "firewall/address": {
    "dependsOn": [],
    "dependedBy": [
      "firewall/policy"
    ],
    "fields": {}
  },
  "firewall/policy": {
    "dependsOn": [
      "firewall/address"
    ],
    "dependedBy": [],
    "fields": {
      "firewall/address": [
        "srcaddr"
      ]
    }
  }
}
`
	assert.Equal(t, want, buf.String())

	back, err := ReadJSON(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(policyGraph(t).Export(), back, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("ReadJSON() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, policyGraph(t).Export()))
	assert.Contains(t, buf.String(), "firewall/policy:")
	assert.Contains(t, buf.String(), "- firewall/address")

	var back Export
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, []string{"srcaddr"}, back["firewall/policy"].Fields["firewall/address"])
}

func TestWriteMsgpackDeterministic(t *testing.T) {
	g, err := Analyze(context.Background(), corpus())
	require.NoError(t, err)

	var a, b bytes.Buffer
	require.NoError(t, WriteMsgpack(&a, g.Export()))
	require.NoError(t, WriteMsgpack(&b, g.Export()))
	assert.Equal(t, a.Bytes(), b.Bytes())

	back, err := ReadMsgpack(&a)
	require.NoError(t, err)
	if diff := cmp.Diff(g.Export(), back, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("ReadMsgpack() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteSQLite(t *testing.T) {
	g, err := Analyze(context.Background(), corpus())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "graph.db")

	// Writing twice replaces the previous export.
	require.NoError(t, WriteSQLite(context.Background(), path, g.Export()))
	require.NoError(t, WriteSQLite(context.Background(), path, g.Export()))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var endpoints, edges int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM endpoints`).Scan(&endpoints))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM edges`).Scan(&edges))
	assert.Equal(t, 6, endpoints)
	assert.Equal(t, 8, edges)

	rows, err := db.Query(`SELECT field FROM edges WHERE source = ? AND target = ? ORDER BY field`,
		"firewall/policy", "firewall/address")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()
	var fields []string
	for rows.Next() {
		var f string
		require.NoError(t, rows.Scan(&f))
		fields = append(fields, f)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"dstaddr", "srcaddr"}, fields)

	var dependedBy int
	require.NoError(t, db.QueryRow(`SELECT depended_by FROM endpoints WHERE name = ?`, "firewall/address").Scan(&dependedBy))
	assert.Equal(t, 2, dependedBy)
}

func TestWriteSQLiteFailureKeepsPreviousExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.db")
	require.NoError(t, WriteSQLite(context.Background(), path, policyGraph(t).Export()))

	// A repeated field violates the edges primary key.
	bad := Export{
		"firewall/policy": {
			DependsOn:  []string{"firewall/address"},
			DependedBy: []string{},
			Fields:     map[string][]string{"firewall/address": {"srcaddr", "srcaddr"}},
		},
	}
	require.Error(t, WriteSQLite(context.Background(), path, bad))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	var endpoints, edges int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM endpoints`).Scan(&endpoints))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM edges`).Scan(&edges))
	assert.Equal(t, 2, endpoints)
	assert.Equal(t, 1, edges)
}

func TestWriteSQLFailures(t *testing.T) {
	boom := errors.New("disk full")

	t.Run("schema", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE endpoints").WillReturnError(boom)
		mock.ExpectRollback()

		err = writeSQL(context.Background(), db, policyGraph(t).Export())
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "create schema")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE endpoints").WillReturnResult(sqlmock.NewResult(0, 0))
		endpoints := mock.ExpectPrepare("INSERT INTO endpoints")
		mock.ExpectPrepare("INSERT INTO edges")
		endpoints.ExpectExec().WithArgs("firewall/address", 0, 1).WillReturnError(boom)
		mock.ExpectRollback()

		err = writeSQL(context.Background(), db, policyGraph(t).Export())
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "insert endpoint firewall/address")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE endpoints").WillReturnResult(sqlmock.NewResult(0, 0))
		endpoints := mock.ExpectPrepare("INSERT INTO endpoints")
		edges := mock.ExpectPrepare("INSERT INTO edges")
		endpoints.ExpectExec().WithArgs("firewall/address", 0, 1).WillReturnResult(sqlmock.NewResult(1, 1))
		endpoints.ExpectExec().WithArgs("firewall/policy", 1, 0).WillReturnResult(sqlmock.NewResult(2, 1))
		edges.ExpectExec().WithArgs("firewall/policy", "firewall/address", "srcaddr").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit().WillReturnError(boom)

		err = writeSQL(context.Background(), db, policyGraph(t).Export())
		require.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestQuery(t *testing.T) {
	g, err := Analyze(context.Background(), corpus())
	require.NoError(t, err)
	e := g.Export()

	got, err := Query(e, "$['firewall/policy'].dependsOn[*]")
	require.NoError(t, err)
	assert.Equal(t, []any{"firewall/address", "firewall/addrgrp", "firewall/schedule/onetime"}, got)

	got, err = Query(e, "$['firewall/address'].dependedBy")
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{"firewall/addrgrp", "firewall/policy"}}, got)

	got, err = Query(e, "$.*.fields['firewall/address']")
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{"dstaddr", "srcaddr"}, []any{"member"}}, got)

	_, err = Query(e, "$[")
	assert.Error(t, err)
}
