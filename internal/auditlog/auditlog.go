// Package auditlog keeps a SQLite journal of bulk maintenance runs: which
// operation ran against which resource, when, and every record it changed.
package auditlog

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/fonds/internal/bulk"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	op         TEXT NOT NULL,
	resource   INTEGER NOT NULL,
	changes    INTEGER NOT NULL DEFAULT 0,
	started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS changes (
	run_id      INTEGER NOT NULL REFERENCES runs(id),
	uri         TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	restriction TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_changes_run ON changes(run_id);
`

// DB wraps a sql.DB with journal-specific operations.
type DB struct {
	conn *sql.DB
}

// Run is one recorded bulk operation with its change entries.
type Run struct {
	ID        int64
	Op        string
	Resource  int
	StartedAt time.Time
	Changes   []bulk.ChangeEntry
}

// Open opens (or creates) the SQLite journal and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("auditlog: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("auditlog: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("auditlog: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Append journals one completed run and its change entries within a
// transaction, returning the new run id. Runs with no changes are still
// journaled so a sweep that found nothing leaves a trace.
func (db *DB) Append(op string, resourceID int, entries []bulk.ChangeEntry) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("auditlog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	res, err := tx.Exec(`INSERT INTO runs (op, resource, changes, started_at) VALUES (?, ?, ?, ?)`,
		op, resourceID, len(entries), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("auditlog: insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("auditlog: run id: %w", err)
	}

	if len(entries) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO changes (run_id, uri, title, restriction) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return 0, fmt.Errorf("auditlog: prepare change insert: %w", err)
		}
		defer stmt.Close()
		for _, e := range entries {
			if _, err := stmt.Exec(runID, e.URI, e.Title, e.Restriction); err != nil {
				return 0, fmt.Errorf("auditlog: insert change: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("auditlog: commit: %w", err)
	}
	return runID, nil
}

// Recent returns the newest runs, most recent first, with their change
// entries attached.
func (db *DB) Recent(limit int) ([]Run, error) {
	rows, err := db.conn.Query(
		`SELECT id, op, resource, started_at FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("auditlog: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Op, &r.Resource, &r.StartedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		changes, err := db.changesForRun(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Changes = changes
	}
	return runs, nil
}

func (db *DB) changesForRun(runID int64) ([]bulk.ChangeEntry, error) {
	rows, err := db.conn.Query(
		`SELECT uri, title, restriction FROM changes WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("auditlog: list changes: %w", err)
	}
	defer rows.Close()

	var out []bulk.ChangeEntry
	for rows.Next() {
		var e bulk.ChangeEntry
		if err := rows.Scan(&e.URI, &e.Title, &e.Restriction); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
