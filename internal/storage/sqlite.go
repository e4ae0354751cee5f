package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

var sqliteQueries = sqlQueries{
	schema: `
	CREATE TABLE IF NOT EXISTS blobs (
		key TEXT PRIMARY KEY,
		content_type TEXT NOT NULL,
		body BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	upsert: `
	INSERT INTO blobs (key, content_type, body, updated_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET
		content_type = excluded.content_type,
		body = excluded.body,
		updated_at = excluded.updated_at`,
	get:    `SELECT body FROM blobs WHERE key = ?`,
	delete: `DELETE FROM blobs WHERE key = ?`,
	exists: `SELECT COUNT(*) FROM blobs WHERE key = ?`,
}

// OpenSQLite opens or creates a SQLite database file.
func OpenSQLite(ctx context.Context, path string) (*SQLStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	s, err := newSQLStorage(ctx, db, sqliteQueries)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
