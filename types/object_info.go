package types

import (
	"fmt"
	"time"
)

// ObjectInfo describes an object listed from an object store
type ObjectInfo struct {
	Key          string    `json:"key"`
	LastModified time.Time `json:"last_modified"`
	Size         int64     `json:"size"`
}

func NewObjectInfo(key string, lastModified time.Time, size int64) *ObjectInfo {
	return &ObjectInfo{
		Key:          key,
		LastModified: lastModified.UTC(),
		Size:         size,
	}
}

func (i *ObjectInfo) String() string {
	return fmt.Sprintf("%s (modified %s, %d bytes)", i.Key, i.LastModified.Format(time.RFC3339), i.Size)
}
