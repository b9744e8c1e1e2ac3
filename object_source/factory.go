package object_source

import (
	"context"
	"fmt"

	"github.com/turbot/tailpipe-file-ingest/config"
)

// New creates and initialises the object source described by the source block
func New(ctx context.Context, c *config.SourceConfig) (ObjectSource, error) {
	if c == nil {
		return nil, fmt.Errorf("no source configured")
	}
	switch c.Type {
	case AwsS3BucketSourceIdentifier:
		cfg, err := config.DecodeBody[AwsS3BucketSourceConfig](c.Remain)
		if err != nil {
			return nil, err
		}
		return NewAwsS3BucketSource(ctx, &cfg)
	case GcpStorageBucketSourceIdentifier:
		cfg, err := config.DecodeBody[GcpStorageBucketSourceConfig](c.Remain)
		if err != nil {
			return nil, err
		}
		return NewGcpStorageBucketSource(ctx, &cfg)
	case FileSystemSourceIdentifier:
		cfg, err := config.DecodeBody[FileSystemSourceConfig](c.Remain)
		if err != nil {
			return nil, err
		}
		return NewFileSystemSource(&cfg)
	default:
		return nil, fmt.Errorf("unsupported source type %q", c.Type)
	}
}
