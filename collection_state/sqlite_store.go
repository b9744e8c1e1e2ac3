package collection_state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/turbot/tailpipe-file-ingest/filepaths"
	_ "modernc.org/sqlite"
)

const SqliteStoreIdentifier = "sqlite"

const createBookmarksTable = `CREATE TABLE IF NOT EXISTS bookmarks (
	table_name TEXT PRIMARY KEY,
	modified_since TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SqliteStore keeps bookmarks in a SQLite database
type SqliteStore struct {
	db *sql.DB
}

func NewSqliteStore(ctx context.Context, path string) (*SqliteStore, error) {
	path, err := filepaths.EnsureFileDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA journal_mode=WAL", "PRAGMA synchronous=FULL", createBookmarksTable} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialise state database: %w", err)
		}
	}
	slog.Info("Opened state database", "path", path)
	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) Get(ctx context.Context, table string) (time.Time, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT modified_since FROM bookmarks WHERE table_name = ?", table).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read bookmark for %s: %w", table, err)
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid bookmark for %s: %w", table, err)
	}
	return t, true, nil
}

func (s *SqliteStore) Set(ctx context.Context, table string, modifiedSince time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bookmarks (table_name, modified_since, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(table_name) DO UPDATE SET modified_since = excluded.modified_since, updated_at = excluded.updated_at`,
		table, modifiedSince.UTC().Format(time.RFC3339Nano), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to write bookmark for %s: %w", table, err)
	}
	return nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}
