package object_source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/mitchellh/go-homedir"
	"github.com/turbot/tailpipe-file-ingest/rate_limiter"
	"github.com/turbot/tailpipe-file-ingest/types"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const GcpStorageBucketSourceIdentifier = "gcp_storage_bucket"

// GcpStorageBucketSource is an [ObjectSource] implementation that reads objects from a GCP Storage bucket
type GcpStorageBucketSource struct {
	Config *GcpStorageBucketSourceConfig

	client  *storage.Client
	limiter *rate_limiter.APILimiter
}

func NewGcpStorageBucketSource(ctx context.Context, c *GcpStorageBucketSourceConfig) (*GcpStorageBucketSource, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", GcpStorageBucketSourceIdentifier, err)
	}
	limiter, err := newLimiter(GcpStorageBucketSourceIdentifier, c.limits())
	if err != nil {
		return nil, err
	}

	s := &GcpStorageBucketSource{Config: c, limiter: limiter}
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}
	s.client = client

	slog.Info("Initialized GcpStorageBucketSource", "bucket", c.Bucket)
	return s, nil
}

func (s *GcpStorageBucketSource) Identifier() string {
	return GcpStorageBucketSourceIdentifier
}

func (s *GcpStorageBucketSource) Location() string {
	return s.Config.Bucket
}

func (s *GcpStorageBucketSource) Close() error {
	return s.client.Close()
}

func (s *GcpStorageBucketSource) List(ctx context.Context, prefix string, recursive bool, fn func(*types.ObjectInfo) error) error {
	query := &storage.Query{Prefix: prefix}
	if !recursive {
		if prefix != "" && !strings.HasSuffix(prefix, "/") {
			query.Prefix = prefix + "/"
		}
		query.Delimiter = "/"
	}

	objectIterator := s.client.Bucket(s.Config.Bucket).Objects(ctx, query)
	count := 0
	for {
		var obj *storage.ObjectAttrs
		err := s.limiter.Do(ctx, func() error {
			var err error
			obj, err = objectIterator.Next()
			return err
		})
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to list objects in bucket %s: %w", s.Config.Bucket, err)
		}
		// with a delimiter, sub-folders are returned as synthetic prefix entries
		if obj.Prefix != "" {
			continue
		}
		count++
		if err := fn(types.NewObjectInfo(obj.Name, obj.Updated, obj.Size)); err != nil {
			return err
		}
	}

	if count == 0 {
		slog.Warn("Found no objects in bucket for prefix", "bucket", s.Config.Bucket, "prefix", query.Prefix)
	}
	return nil
}

func (s *GcpStorageBucketSource) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	var reader *storage.Reader
	err := s.limiter.Do(ctx, func() error {
		var err error
		reader, err = s.client.Bucket(s.Config.Bucket).Object(key).NewReader(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object reader for %s: %w", key, err)
	}
	return reader, nil
}

func (s *GcpStorageBucketSource) getClient(ctx context.Context) (*storage.Client, error) {
	var opts []option.ClientOption
	if s.Config.Credentials != nil {
		path, err := homedir.Expand(*s.Config.Credentials)
		if err != nil {
			return nil, fmt.Errorf("failed to expand credentials path: %w", err)
		}
		opts = append(opts, option.WithCredentialsFile(path))
	}
	if s.Config.Project != nil {
		opts = append(opts, option.WithQuotaProject(*s.Config.Project))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCP Storage client: %w", err)
	}
	return client, nil
}
