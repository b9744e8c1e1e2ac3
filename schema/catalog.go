package schema

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Catalog declares the schema and field selection of each table
// It is read from YAML, or JSON which is accepted by the same parser
type Catalog struct {
	Streams []*Stream `yaml:"streams" json:"streams"`
}

// Stream is the catalog entry for a single table
type Stream struct {
	TableName string      `yaml:"table_name" json:"table_name"`
	Schema    *JSONSchema `yaml:"schema" json:"schema"`
	// per field metadata, keyed by field name
	Metadata      map[string]*FieldMetadata `yaml:"metadata,omitempty" json:"metadata,omitempty"`
	ColumnUpdates []*ColumnUpdate           `yaml:"column_updates,omitempty" json:"column_updates,omitempty"`
}

// FieldMetadata controls whether a field is emitted and how it is typed at the source
type FieldMetadata struct {
	// automatic, available or unsupported
	Inclusion string `yaml:"inclusion,omitempty" json:"inclusion,omitempty"`
	Selected  *bool  `yaml:"selected,omitempty" json:"selected,omitempty"`
	// the native type of the field, used when the column has been modified downstream
	SourceType string `yaml:"source_type,omitempty" json:"source_type,omitempty"`
}

const (
	InclusionAutomatic   = "automatic"
	InclusionAvailable   = "available"
	InclusionUnsupported = "unsupported"

	ColumnUpdateModify = "modify"
)

// ColumnUpdate records a change made to a column downstream
type ColumnUpdate struct {
	Column           string `yaml:"column" json:"column"`
	ColumnUpdateType string `yaml:"column_update_type" json:"column_update_type"`
}

// LoadCatalog reads a catalog file
func LoadCatalog(path string) (*Catalog, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand catalog path: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for i, s := range c.Streams {
		if s.TableName == "" {
			return nil, fmt.Errorf("catalog stream %d has no table_name", i)
		}
		if s.Schema == nil {
			return nil, fmt.Errorf("catalog stream %s has no schema", s.TableName)
		}
	}
	return &c, nil
}

// Stream returns the stream for the named table, or nil
func (c *Catalog) Stream(tableName string) *Stream {
	for _, s := range c.Streams {
		if s.TableName == tableName {
			return s
		}
	}
	return nil
}

// Marshal returns the catalog as YAML
func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
