package graph

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const sqliteSchema = `
DROP TABLE IF EXISTS edges;
DROP TABLE IF EXISTS endpoints;
CREATE TABLE endpoints (
	name        TEXT PRIMARY KEY,
	depends_on  INTEGER NOT NULL,
	depended_by INTEGER NOT NULL
);
CREATE TABLE edges (
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	field  TEXT NOT NULL,
	PRIMARY KEY (source, target, field)
) WITHOUT ROWID;
CREATE INDEX idx_edges_target ON edges(target);
`

// WriteSQLite stores e in the SQLite database at path, replacing any previous
// export in a single transaction, so a failed write keeps the old tables. The database has two tables: endpoints(name, depends_on,
// depended_by) and edges(source, target, field).
func WriteSQLite(ctx context.Context, path string, e Export) (err error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("graph: open sqlite %s: %w", path, err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("graph: close sqlite %s: %w", path, cerr)
		}
	}()
	return writeSQL(ctx, db, e)
}

func writeSQL(ctx context.Context, db *sql.DB, e Export) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("graph: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("graph: create schema: %w", err)
	}

	stmtEndpoint, err := tx.PrepareContext(ctx, `INSERT INTO endpoints (name, depends_on, depended_by) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("graph: prepare endpoints: %w", err)
	}
	defer func() { _ = stmtEndpoint.Close() }()
	stmtEdge, err := tx.PrepareContext(ctx, `INSERT INTO edges (source, target, field) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("graph: prepare edges: %w", err)
	}
	defer func() { _ = stmtEdge.Close() }()

	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ne := e[name]
		if _, err := stmtEndpoint.ExecContext(ctx, name, len(ne.DependsOn), len(ne.DependedBy)); err != nil {
			return fmt.Errorf("graph: insert endpoint %s: %w", name, err)
		}
		for _, target := range ne.DependsOn {
			for _, field := range ne.Fields[target] {
				if _, err := stmtEdge.ExecContext(ctx, name, target, field); err != nil {
					return fmt.Errorf("graph: insert edge %s -> %s: %w", name, target, err)
				}
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("graph: commit: %w", err)
	}
	return nil
}
