package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/turbot/tailpipe-file-ingest/context_values"
	"github.com/turbot/tailpipe-file-ingest/filepaths"
	"github.com/turbot/tailpipe-file-ingest/schema"
)

const JSONLSinkIdentifier = "jsonl"

// JSONLSink writes each batch to its own JSONL file in destPath
type JSONLSink struct {
	// the path to write the JSONL files to
	destPath string

	mut    sync.Mutex
	chunks map[string]int
}

func NewJSONLSink(destPath string) (*JSONLSink, error) {
	destPath, err := filepaths.EnsureDir(destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create sink directory: %w", err)
	}
	return &JSONLSink{destPath: destPath, chunks: make(map[string]int)}, nil
}

func (j *JSONLSink) Identifier() string {
	return JSONLSinkIdentifier
}

func (j *JSONLSink) Emit(ctx context.Context, table string, records []schema.Record) error {
	executionId, err := context_values.ExecutionIdFromContext(ctx)
	if err != nil {
		return err
	}

	j.mut.Lock()
	chunkNumber := j.chunks[table]
	j.chunks[table]++
	j.mut.Unlock()

	filename := filepath.Join(j.destPath, ChunkFileName(executionId, table, chunkNumber))

	file, err := os.Create(filename)
	if err != nil {
		slog.Error("failed to create JSONL file", "error", err)
		return fmt.Errorf("failed to create JSONL file %s: %w", filename, err)
	}

	slog.Debug("writing JSONL file", "file", filename, "rows", len(records))
	encoder := json.NewEncoder(file)
	for _, r := range records {
		if err := encoder.Encode(r); err != nil {
			file.Close()
			slog.Error("failed to encode record", "error", err)
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("failed to sync JSONL file %s: %w", filename, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close JSONL file %s: %w", filename, err)
	}
	return nil
}

func (j *JSONLSink) Close() error {
	return nil
}
