package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

var postgresQueries = sqlQueries{
	schema: `
	CREATE TABLE IF NOT EXISTS blobs (
		key TEXT PRIMARY KEY,
		content_type TEXT NOT NULL,
		body BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	upsert: `
	INSERT INTO blobs (key, content_type, body, updated_at)
	VALUES ($1, $2, $3, now())
	ON CONFLICT (key) DO UPDATE SET
		content_type = EXCLUDED.content_type,
		body = EXCLUDED.body,
		updated_at = EXCLUDED.updated_at`,
	get:    `SELECT body FROM blobs WHERE key = $1`,
	delete: `DELETE FROM blobs WHERE key = $1`,
	exists: `SELECT COUNT(*) FROM blobs WHERE key = $1`,
}

func OpenPostgres(ctx context.Context, databaseURL string) (*SQLStorage, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s, err := newSQLStorage(ctx, db, postgresQueries)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
