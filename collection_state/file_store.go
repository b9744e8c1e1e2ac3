package collection_state

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/turbot/tailpipe-file-ingest/filepaths"
)

const FileStoreIdentifier = "file"

type tableBookmark struct {
	ModifiedSince time.Time `json:"modified_since"`
}

type fileState struct {
	Bookmarks map[string]*tableBookmark `json:"bookmarks"`
}

// FileStore keeps bookmarks in a JSON state file, rewritten in full on every Set
type FileStore struct {
	mut   sync.RWMutex
	path  string
	state fileState
}

// NewFileStore loads the state file at path if it exists
func NewFileStore(path string) (*FileStore, error) {
	path, err := filepaths.EnsureFileDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	s := &FileStore{
		path:  path,
		state: fileState{Bookmarks: make(map[string]*tableBookmark)},
	}

	jsonBytes, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		slog.Info("No state file found, all tables will be fully synced", "path", path)
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	if err := json.Unmarshal(jsonBytes, &s.state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state file %s: %w", path, err)
	}
	if s.state.Bookmarks == nil {
		s.state.Bookmarks = make(map[string]*tableBookmark)
	}
	return s, nil
}

func (s *FileStore) Get(_ context.Context, table string) (time.Time, bool, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	b, ok := s.state.Bookmarks[table]
	if !ok || b == nil {
		return time.Time{}, false, nil
	}
	return b.ModifiedSince, true, nil
}

func (s *FileStore) Set(ctx context.Context, table string, modifiedSince time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mut.Lock()
	defer s.mut.Unlock()

	s.state.Bookmarks[table] = &tableBookmark{ModifiedSince: modifiedSince.UTC()}
	return s.save()
}

func (s *FileStore) Close() error {
	return nil
}

// save writes the state to a temp file in the same directory and renames it over the state
// file, so a crash leaves either the old or the new state
func (s *FileStore) save() error {
	jsonBytes, err := json.Marshal(s.state)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(jsonBytes); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to write state to file: %w", err)
	}
	// the rename is only durable once the directory entry is flushed
	if err := filepaths.SyncDir(dir); err != nil {
		return fmt.Errorf("failed to sync state directory: %w", err)
	}
	return nil
}
