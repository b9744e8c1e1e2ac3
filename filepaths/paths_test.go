package filepaths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	got, err := EnsureDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// existing directories are left alone
	_, err = EnsureDir(dir)
	assert.NoError(t, err)
}

func TestEnsureFileDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "bookmarks.db")

	got, err := EnsureFileDir(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	_, err = os.Stat(filepath.Dir(path))
	assert.NoError(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSyncDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.tmp"), []byte("x"), 0644))
	require.NoError(t, os.Rename(filepath.Join(dir, "a.tmp"), filepath.Join(dir, "a.json")))

	assert.NoError(t, SyncDir(dir))
	assert.Error(t, SyncDir(filepath.Join(dir, "missing")))
}
