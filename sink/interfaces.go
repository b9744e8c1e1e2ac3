package sink

import (
	"context"

	"github.com/turbot/tailpipe-file-ingest/schema"
)

// Sink receives batches of records, in the order they were read
// Sinks provided: [JSONLSink], [StdoutSink]
type Sink interface {
	Identifier() string
	// Emit writes a batch of records for the table, the batch is complete when Emit returns
	Emit(ctx context.Context, table string, records []schema.Record) error
	Close() error
}
