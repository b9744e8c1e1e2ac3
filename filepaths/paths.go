package filepaths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// EnsureDir expands a leading ~ in dir and ensures the directory exists
func EnsureDir(dir string) (string, error) {
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return "", fmt.Errorf("failed to expand path %s: %w", dir, err)
	}
	// ensure it exists
	if _, err := os.Stat(expanded); os.IsNotExist(err) {
		err = os.MkdirAll(expanded, 0755)
		if err != nil {
			return "", fmt.Errorf("could not create directory %s: %w", expanded, err)
		}
	}
	return expanded, nil
}

// EnsureFileDir expands a leading ~ in path and ensures the directory containing the file exists
func EnsureFileDir(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand path %s: %w", path, err)
	}
	if _, err := EnsureDir(filepath.Dir(expanded)); err != nil {
		return "", err
	}
	return expanded, nil
}

// SyncDir flushes the entries of dir, e.g. a file renamed into it, to stable storage
func SyncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("could not open directory %s: %w", dir, err)
	}
	if err := d.Sync(); err != nil {
		d.Close()
		return fmt.Errorf("could not sync directory %s: %w", dir, err)
	}
	return d.Close()
}
