package sink

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/turbot/tailpipe-file-ingest/schema"
)

const StdoutSinkIdentifier = "stdout"

// recordMessage is a single line of output, one per record
type recordMessage struct {
	Type          string        `json:"type"`
	Stream        string        `json:"stream"`
	Record        schema.Record `json:"record"`
	TimeExtracted string        `json:"time_extracted"`
}

// StdoutSink writes every record as a RECORD message line
type StdoutSink struct {
	mut sync.Mutex
	w   *bufio.Writer
}

func NewStdoutSink(w io.Writer) *StdoutSink {
	return &StdoutSink{w: bufio.NewWriter(w)}
}

func (s *StdoutSink) Identifier() string {
	return StdoutSinkIdentifier
}

func (s *StdoutSink) Emit(ctx context.Context, table string, records []schema.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mut.Lock()
	defer s.mut.Unlock()

	extracted := time.Now().UTC().Format(time.RFC3339Nano)
	encoder := json.NewEncoder(s.w)
	for _, r := range records {
		msg := recordMessage{Type: "RECORD", Stream: table, Record: r, TimeExtracted: extracted}
		if err := encoder.Encode(msg); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	// a batch is only complete once it has left the buffer
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush records: %w", err)
	}
	return nil
}

func (s *StdoutSink) Close() error {
	s.mut.Lock()
	defer s.mut.Unlock()
	return s.w.Flush()
}
