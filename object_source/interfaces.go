package object_source

import (
	"context"
	"io"

	"github.com/turbot/tailpipe-file-ingest/types"
)

// ObjectSource is an object store which can list and open objects
// Sources provided: [AwsS3BucketSource], [GcpStorageBucketSource], [FileSystemSource]
type ObjectSource interface {
	Identifier() string
	// Location is the bucket (or root directory) the object keys are relative to
	Location() string
	// List calls fn for every object under prefix; when recursive is false only objects
	// directly below the prefix are listed
	List(ctx context.Context, prefix string, recursive bool, fn func(*types.ObjectInfo) error) error
	// Open returns a stream of the object content, the caller must close it
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Close() error
}
