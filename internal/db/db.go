package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	conn *sql.DB
	Path string
}

// OpenDB opens a SQLite database with WAL mode and foreign keys enabled,
// creating the schema when missing.
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for concurrent reads
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := conn.Exec(Schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{conn: conn, Path: path}, nil
}

// OpenMemory opens a fresh in-memory database with the full schema. Used by
// tests and dry runs.
func OpenMemory() (*DB, error) {
	return OpenDB(":memory:")
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.conn.Close()
}

// Conn returns the underlying sql.DB for custom queries
func (d *DB) Conn() *sql.DB {
	return d.conn
}

// Schema creates the three durable tables: the ingested records, the proposed
// candidate edges and the append-only merge decisions. Canonical groups and
// the assembled library are recomputed from these, never stored.
const Schema = `
CREATE TABLE IF NOT EXISTS records (
	id TEXT PRIMARY KEY,
	wave INTEGER NOT NULL,
	variable TEXT NOT NULL,
	kind TEXT NOT NULL DEFAULT 'question',
	raw_text TEXT NOT NULL,
	normalized_text TEXT NOT NULL,
	alternatives TEXT NOT NULL DEFAULT '[]',
	sub_items TEXT NOT NULL DEFAULT '[]',
	stem_variable TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS candidate_edges (
	id TEXT PRIMARY KEY,
	record_id_a TEXT NOT NULL,
	record_id_b TEXT NOT NULL,
	similarity REAL NOT NULL,
	partition_label TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS merge_decisions (
	id TEXT PRIMARY KEY,
	edge_id TEXT NOT NULL REFERENCES candidate_edges(id),
	verdict TEXT NOT NULL,
	source TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_decisions_edge ON merge_decisions(edge_id, created_at);
`
