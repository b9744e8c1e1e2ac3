package collection_state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/tailpipe-file-ingest/config"
)

func TestStores(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		config func(dir string) *config.StateConfig
	}{
		{
			name:   "file",
			config: func(dir string) *config.StateConfig { return &config.StateConfig{Type: FileStoreIdentifier, Path: filepath.Join(dir, "state", "state.json")} },
		},
		{
			name:   "sqlite",
			config: func(dir string) *config.StateConfig { return &config.StateConfig{Type: SqliteStoreIdentifier, Path: filepath.Join(dir, "state.db")} },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.config(t.TempDir())

			store, err := New(ctx, c)
			require.NoError(t, err)

			_, ok, err := store.Get(ctx, "orders")
			require.NoError(t, err)
			assert.False(t, ok)

			first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
			second := time.Date(2024, 5, 2, 11, 30, 0, 123000000, time.FixedZone("CEST", 2*60*60))
			require.NoError(t, store.Set(ctx, "orders", first))
			require.NoError(t, store.Set(ctx, "orders", second))
			require.NoError(t, store.Set(ctx, "customers", first))

			got, ok, err := store.Get(ctx, "orders")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.True(t, second.Equal(got))
			require.NoError(t, store.Close())

			// a new store over the same path sees the persisted bookmarks
			reopened, err := New(ctx, c)
			require.NoError(t, err)
			defer reopened.Close()

			got, ok, err = reopened.Get(ctx, "orders")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.True(t, second.Equal(got))

			got, ok, err = reopened.Get(ctx, "customers")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.True(t, first.Equal(got))
		})
	}
}

func TestFileStore_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "orders", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"bookmarks":{"orders":{"modified_since":"2024-01-02T03:04:05Z"}}}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should not be left behind")
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestNew_Default(t *testing.T) {
	assert.Equal(t, "file_ingest_state.json", DefaultStatePath)
	_, err := New(context.Background(), &config.StateConfig{Type: "redis", Path: "x"})
	assert.Error(t, err)
}
