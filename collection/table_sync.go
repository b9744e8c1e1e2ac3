package collection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/turbot/tailpipe-file-ingest/artifact_loader"
	"github.com/turbot/tailpipe-file-ingest/collection_state"
	"github.com/turbot/tailpipe-file-ingest/config"
	"github.com/turbot/tailpipe-file-ingest/constants"
	"github.com/turbot/tailpipe-file-ingest/context_values"
	"github.com/turbot/tailpipe-file-ingest/events"
	"github.com/turbot/tailpipe-file-ingest/mappers"
	"github.com/turbot/tailpipe-file-ingest/object_source"
	"github.com/turbot/tailpipe-file-ingest/observable"
	"github.com/turbot/tailpipe-file-ingest/schema"
	"github.com/turbot/tailpipe-file-ingest/sink"
	"github.com/turbot/tailpipe-file-ingest/types"
	"golang.org/x/exp/slices"
)

// TableSync syncs the objects of one table, in key order, committing the bookmark after each object
type TableSync struct {
	observable.Base

	Spec   *config.TableSpec
	Stream *schema.Stream

	source object_source.ObjectSource
	store  collection_state.Store
	sink   sink.Sink

	bufferSize int

	// per run state
	executionId string
	schemaCtx   *schema.Context
	overrides   map[string]string
	resolver    *artifact_loader.Resolver
	result      *Result
	chunkNumber int
}

type TableSyncOption func(*TableSync)

// WithBufferSize sets the number of records in each batch passed to the sink
func WithBufferSize(size int) TableSyncOption {
	return func(s *TableSync) {
		s.bufferSize = size
	}
}

func NewTableSync(spec *config.TableSpec, stream *schema.Stream, source object_source.ObjectSource, store collection_state.Store, dest sink.Sink, opts ...TableSyncOption) *TableSync {
	s := &TableSync{
		Spec:       spec,
		Stream:     stream,
		source:     source,
		store:      store,
		sink:       dest,
		bufferSize: constants.DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run syncs every object modified since the table bookmark
// A fatal error stops the sync, the bookmark is left at the last object completed
func (s *TableSync) Run(ctx context.Context) (*Result, error) {
	table := s.Spec.TableName
	s.result = &Result{Table: table}
	s.chunkNumber = 0

	executionId, err := context_values.ExecutionIdFromContext(ctx)
	if err != nil {
		executionId = context_values.NewExecutionId()
		ctx = context_values.WithExecutionId(ctx, executionId)
	}
	s.executionId = executionId

	err = s.run(ctx)
	if err != nil {
		slog.Error("Table sync failed", "table", table, "error", err)
	}
	s.notify(ctx, events.NewCompletedEvent(executionId, table, s.result.RecordsStreamed, s.result.ObjectsSkipped, err))
	return s.result, err
}

func (s *TableSync) run(ctx context.Context) error {
	table := s.Spec.TableName

	modifiedSince, err := ModifiedSince(ctx, s.store, table)
	if err != nil {
		return fmt.Errorf("failed to get bookmark for table %s: %w", table, err)
	}
	s.result.Bookmark = modifiedSince
	slog.Info("Syncing table", "table", table, "modified_since", modifiedSince)
	s.notify(ctx, events.NewStartedEvent(s.executionId, table, modifiedSince))

	enumeration, err := object_source.Enumerate(ctx, s.source, s.Spec, modifiedSince)
	if err != nil {
		return err
	}
	objects := enumeration.Objects
	// part files are named in write order, so key order is the order to sync in
	slices.SortFunc(objects, func(a, b *types.ObjectInfo) int {
		return strings.Compare(a.Key, b.Key)
	})
	s.notify(ctx, events.NewObjectsDiscoveredEvent(s.executionId, table, len(objects)))

	s.schemaCtx = schema.NewContext(s.Stream, s.Spec.DateOverrides)
	s.overrides = schema.BuildTypeOverrides(s.Stream.ColumnUpdates, s.schemaCtx.SourceTypes)
	s.resolver = artifact_loader.NewResolver(mappers.OptionsForTable(s.Spec))
	buffer := NewBuffer(s.bufferSize, s.emit)

	for _, obj := range objects {
		// stop between objects, the next run starts again from the last committed object
		if err := ctx.Err(); err != nil {
			return err
		}

		records, err := s.syncObject(ctx, obj, buffer)
		if err != nil {
			return fmt.Errorf("failed to sync %s: %w", obj.Key, err)
		}
		if err := s.commit(ctx, obj); err != nil {
			return err
		}
		s.result.ObjectsSynced++
		s.notify(ctx, events.NewObjectSyncedEvent(s.executionId, table, obj.Key, records, obj.LastModified))
	}

	if s.result.ObjectsSkipped > 0 {
		slog.Warn("Files were skipped during the sync", "table", table, "skipped", s.result.ObjectsSkipped)
	}
	slog.Info("Wrote records for table", "table", table, "records", s.result.RecordsStreamed)
	return nil
}

// syncObject emits the records of every readable file in the object and returns the record count
func (s *TableSync) syncObject(ctx context.Context, obj *types.ObjectInfo, buffer *Buffer) (int, error) {
	if obj.Size == 0 {
		s.skip(ctx, artifact_loader.NewSkippedContent(obj.Key, artifact_loader.EmptyObject, "object is empty"))
		return 0, nil
	}

	data, err := s.download(ctx, obj)
	if err != nil {
		return 0, err
	}
	contents, err := s.resolver.Resolve(obj.Key, data)
	if err != nil {
		return 0, err
	}

	records := 0
	for _, c := range contents {
		switch content := c.(type) {
		case *artifact_loader.SkippedContent:
			s.skip(ctx, content)
		case artifact_loader.TerminalContent:
			slog.Info("Syncing file", "table", s.Spec.TableName, "name", content.Name(), "rows", content.RowCount())
			n, err := s.syncContent(ctx, content, buffer)
			records += n
			if err != nil {
				return records, err
			}
		}
	}
	return records, nil
}

func (s *TableSync) syncContent(ctx context.Context, content artifact_loader.TerminalContent, buffer *Buffer) (int, error) {
	bucket := s.source.Location()
	rows := content.Rows()
	count := 0
	for {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		row, err := rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("failed to read row from %s: %w", content.Name(), err)
		}

		rec, err := s.transform(row, schema.AutoValues(bucket, content.Name(), row))
		if err != nil {
			return count, fmt.Errorf("%s line %d: %w", content.Name(), row.LineNumber, err)
		}
		if err := buffer.Add(ctx, rec); err != nil {
			return count, err
		}
		count++
	}
	// batches never span files
	return count, buffer.Flush(ctx)
}

func (s *TableSync) transform(row *types.RawRow, autoValues map[string]any) (schema.Record, error) {
	t := schema.NewTransformer(s.overrides)
	defer t.Close()
	return t.Transform(row, s.schemaCtx, autoValues)
}

func (s *TableSync) download(ctx context.Context, obj *types.ObjectInfo) ([]byte, error) {
	r, err := s.source.Open(ctx, obj.Key)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", obj.Key, err)
	}
	slog.Debug("Downloaded object", "key", obj.Key, "bytes", len(data))
	return data, nil
}

func (s *TableSync) emit(ctx context.Context, batch []schema.Record) error {
	if err := s.sink.Emit(ctx, s.Spec.TableName, batch); err != nil {
		return fmt.Errorf("failed to write records to %s sink: %w", s.sink.Identifier(), err)
	}
	s.result.RecordsStreamed += len(batch)
	s.notify(ctx, events.NewChunkEvent(s.executionId, s.Spec.TableName, s.chunkNumber, len(batch)))
	s.chunkNumber++
	return nil
}

func (s *TableSync) commit(ctx context.Context, obj *types.ObjectInfo) error {
	if obj.LastModified.Before(s.result.Bookmark) {
		// key order and modification order disagree, the bookmark moves back to this object
		slog.Warn("Bookmark moving backwards", "table", s.Spec.TableName, "key", obj.Key, "from", s.result.Bookmark, "to", obj.LastModified)
	}
	if err := s.store.Set(ctx, s.Spec.TableName, obj.LastModified); err != nil {
		return fmt.Errorf("failed to save bookmark for table %s: %w", s.Spec.TableName, err)
	}
	s.result.Bookmark = obj.LastModified
	return nil
}

func (s *TableSync) skip(ctx context.Context, c *artifact_loader.SkippedContent) {
	slog.Warn("Skipping file", "table", s.Spec.TableName, "name", c.Name(), "reason", c.Reason, "detail", c.Message)
	s.result.ObjectsSkipped++
	s.notify(ctx, events.NewObjectSkippedEvent(s.executionId, s.Spec.TableName, c.Name(), string(c.Reason), c.Message))
}

// notify publishes a progress event, observer failures do not affect the sync
func (s *TableSync) notify(ctx context.Context, e events.Event) {
	if err := s.NotifyObservers(ctx, e); err != nil {
		slog.Warn("Observer failed to handle event", "event", fmt.Sprintf("%T", e), "error", err)
	}
}

// ModifiedSince returns the bookmark the table would next sync from
func ModifiedSince(ctx context.Context, store collection_state.Store, table string) (time.Time, error) {
	t, ok, err := store.Get(ctx, table)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return constants.DefaultModifiedSince, nil
	}
	return t, nil
}
