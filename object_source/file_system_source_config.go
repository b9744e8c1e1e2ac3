package object_source

import "errors"

// FileSystemSourceConfig is the configuration for a [FileSystemSource]
type FileSystemSourceConfig struct {
	Path string `hcl:"path"`
}

func (c *FileSystemSourceConfig) Validate() error {
	if c.Path == "" {
		return errors.New("path is required")
	}
	return nil
}
