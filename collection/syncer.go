package collection

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/turbot/tailpipe-file-ingest/collection_state"
	"github.com/turbot/tailpipe-file-ingest/config"
	"github.com/turbot/tailpipe-file-ingest/object_source"
	"github.com/turbot/tailpipe-file-ingest/observable"
	"github.com/turbot/tailpipe-file-ingest/schema"
	"github.com/turbot/tailpipe-file-ingest/sink"
)

// Syncer syncs the configured tables one after another
type Syncer struct {
	observable.Base

	Config  *config.Config
	Catalog *schema.Catalog

	Source object_source.ObjectSource
	Store  collection_state.Store
	Sink   sink.Sink

	Options []TableSyncOption
}

// Sync syncs the named tables, or every configured table when no names are given
// Tables missing from the catalog are skipped. The first table to fail stops the sync
func (s *Syncer) Sync(ctx context.Context, tableNames ...string) ([]*Result, error) {
	tables, err := s.Config.SelectTables(tableNames)
	if err != nil {
		return nil, err
	}

	var results []*Result
	for _, spec := range tables {
		stream := s.Catalog.Stream(spec.TableName)
		if stream == nil {
			slog.Warn("Table is not in the catalog, skipping", "table", spec.TableName)
			continue
		}

		ts := NewTableSync(spec, stream, s.Source, s.Store, s.Sink, s.Options...)
		for _, o := range s.Observers {
			if err := ts.AddObserver(o); err != nil {
				return results, err
			}
		}

		res, err := ts.Run(ctx)
		results = append(results, res)
		if err != nil {
			return results, fmt.Errorf("sync of table %s failed: %w", spec.TableName, err)
		}
		slog.Info("Table sync complete", "result", res.String())
	}
	return results, nil
}
