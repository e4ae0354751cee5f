package storage

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
)

var _ Storage = (*SQLStorage)(nil)

type sqlQueries struct {
	schema string
	upsert string
	get    string
	delete string
	exists string
}

// SQLStorage keeps objects as rows of a single blobs table. It backs both the
// SQLite and the PostgreSQL mirror.
type SQLStorage struct {
	db *sql.DB
	q  sqlQueries
}

func newSQLStorage(ctx context.Context, db *sql.DB, q sqlQueries) (*SQLStorage, error) {
	if _, err := db.ExecContext(ctx, q.schema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLStorage{db: db, q: q}, nil
}

func (s *SQLStorage) Close() error {
	return s.db.Close()
}

func (s *SQLStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	_, err = s.db.ExecContext(ctx, s.q.upsert, key, contentType, data)
	return err
}

func (s *SQLStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, s.q.get, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *SQLStorage) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.q.delete, key)
	return err
}

func (s *SQLStorage) Exists(ctx context.Context, key string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, s.q.exists, key).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
