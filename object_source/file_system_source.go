package object_source

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/turbot/tailpipe-file-ingest/types"
)

const FileSystemSourceIdentifier = "file_system"

// FileSystemSource is an [ObjectSource] over a local directory
// object keys are slash separated paths relative to the root
type FileSystemSource struct {
	Root string
}

func NewFileSystemSource(c *FileSystemSourceConfig) (*FileSystemSource, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", FileSystemSourceIdentifier, err)
	}
	root, err := homedir.Expand(c.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand path %s: %w", c.Path, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("invalid %s path: %w", FileSystemSourceIdentifier, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("invalid %s path: %s is not a directory", FileSystemSourceIdentifier, root)
	}
	slog.Info("Initialized FileSystemSource", "root", root)
	return &FileSystemSource{Root: root}, nil
}

func (s *FileSystemSource) Identifier() string {
	return FileSystemSourceIdentifier
}

func (s *FileSystemSource) Location() string {
	return s.Root
}

func (s *FileSystemSource) Close() error {
	return nil
}

func (s *FileSystemSource) List(ctx context.Context, prefix string, recursive bool, fn func(*types.ObjectInfo) error) error {
	if !recursive && prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		if !recursive && strings.Contains(strings.TrimPrefix(key, prefix), "/") {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		return fn(types.NewObjectInfo(key, info.ModTime(), info.Size()))
	})
}

func (s *FileSystemSource) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path := filepath.Join(s.Root, filepath.FromSlash(key))
	// keys are always relative to the root
	if rel, err := filepath.Rel(s.Root, path); err != nil || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("key %s is outside the source root", key)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	return f, nil
}
