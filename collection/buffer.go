package collection

import (
	"context"

	"github.com/turbot/tailpipe-file-ingest/schema"
)

// FlushFunc receives a full (or final partial) batch of records
type FlushFunc func(ctx context.Context, batch []schema.Record) error

// Buffer collects records and passes them on in batches of at most capacity records
type Buffer struct {
	capacity int
	records  []schema.Record
	flush    FlushFunc
}

func NewBuffer(capacity int, flush FlushFunc) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		capacity: capacity,
		records:  make([]schema.Record, 0, capacity),
		flush:    flush,
	}
}

// Add appends a record, flushing once the buffer is full
func (b *Buffer) Add(ctx context.Context, r schema.Record) error {
	b.records = append(b.records, r)
	if len(b.records) >= b.capacity {
		return b.Flush(ctx)
	}
	return nil
}

// Flush passes any buffered records on, the buffer is empty afterwards
func (b *Buffer) Flush(ctx context.Context) error {
	if len(b.records) == 0 {
		return nil
	}
	batch := b.records
	// the flushed batch is owned by the receiver
	b.records = make([]schema.Record, 0, b.capacity)
	return b.flush(ctx, batch)
}

// Len returns the number of buffered records
func (b *Buffer) Len() int {
	return len(b.records)
}
