package collection_state

import (
	"context"
	"fmt"

	"github.com/iancoleman/strcase"
	"github.com/turbot/tailpipe-file-ingest/config"
	"github.com/turbot/tailpipe-file-ingest/constants"
)

// DefaultStatePath is the state file used when no state block is configured
var DefaultStatePath = strcase.ToSnake(constants.ToolName) + "_state.json"

// New creates the store described by the state block, a nil block uses a [FileStore] at [DefaultStatePath]
func New(ctx context.Context, c *config.StateConfig) (Store, error) {
	if c == nil {
		return NewFileStore(DefaultStatePath)
	}
	switch c.Type {
	case FileStoreIdentifier:
		return NewFileStore(c.Path)
	case SqliteStoreIdentifier:
		return NewSqliteStore(ctx, c.Path)
	default:
		return nil, fmt.Errorf("unsupported state type %q", c.Type)
	}
}
