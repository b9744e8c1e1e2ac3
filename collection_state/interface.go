package collection_state

import (
	"context"
	"time"
)

// Store persists the bookmark of each table: the last modified time of the last object synced
// Stores provided: [FileStore], [SqliteStore]
type Store interface {
	// Get returns the bookmark for the table, false if the table has never been synced
	Get(ctx context.Context, table string) (time.Time, bool, error)
	// Set records the bookmark for the table, it is durable when Set returns
	Set(ctx context.Context, table string, modifiedSince time.Time) error
	Close() error
}
