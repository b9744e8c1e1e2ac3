package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// Config is the parsed content of a sync configuration file
type Config struct {
	// path of the catalog (YAML or JSON) declaring the schema of each table
	Catalog *string `hcl:"catalog,optional"`

	Source *SourceConfig `hcl:"source,block"`
	State  *StateConfig  `hcl:"state,block"`
	Sink   *SinkConfig   `hcl:"sink,block"`
	Tables []*TableSpec  `hcl:"table,block"`
}

// SourceConfig names the object store type, the remaining attributes are decoded by the source itself
type SourceConfig struct {
	Type   string   `hcl:"type,label"`
	Remain hcl.Body `hcl:",remain"`
}

// StateConfig configures where table bookmarks are persisted
type StateConfig struct {
	Type string `hcl:"type,label"`
	Path string `hcl:"path"`
}

// SinkConfig configures where record batches are written
type SinkConfig struct {
	Type string  `hcl:"type,label"`
	Path *string `hcl:"path,optional"`
}

func (c *Config) Validate() error {
	var errs []error
	if c.Source == nil {
		errs = append(errs, errors.New("a source block is required"))
	}
	if len(c.Tables) == 0 {
		errs = append(errs, errors.New("at least one table block is required"))
	}

	names := make(map[string]struct{}, len(c.Tables))
	for _, t := range c.Tables {
		if _, ok := names[t.TableName]; ok {
			errs = append(errs, fmt.Errorf("duplicate table %q", t.TableName))
		}
		names[t.TableName] = struct{}{}
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	if c.State != nil {
		switch c.State.Type {
		case "file", "sqlite":
		default:
			errs = append(errs, fmt.Errorf("unsupported state type %q", c.State.Type))
		}
		if strings.TrimSpace(c.State.Path) == "" {
			errs = append(errs, errors.New("state path is required"))
		}
	}
	if c.Sink != nil {
		switch c.Sink.Type {
		case "stdout":
		case "jsonl":
			if c.Sink.Path == nil || *c.Sink.Path == "" {
				errs = append(errs, errors.New("jsonl sink requires a path"))
			}
		default:
			errs = append(errs, fmt.Errorf("unsupported sink type %q", c.Sink.Type))
		}
	}
	return errors.Join(errs...)
}

// Table returns the table with the given name
func (c *Config) Table(name string) (*TableSpec, bool) {
	for _, t := range c.Tables {
		if t.TableName == name {
			return t, true
		}
	}
	return nil, false
}

// SelectTables returns the named tables, or every table when no names are given
func (c *Config) SelectTables(names []string) ([]*TableSpec, error) {
	if len(names) == 0 {
		return c.Tables, nil
	}
	tables := make([]*TableSpec, 0, len(names))
	for _, name := range names {
		t, ok := c.Table(name)
		if !ok {
			return nil, fmt.Errorf("table %q is not configured", name)
		}
		tables = append(tables, t)
	}
	return tables, nil
}
