package schema

import (
	"fmt"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

const (
	TypeNull    = "null"
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"

	FormatDateTime = "date-time"
)

// JSONSchema is the subset of JSON schema used to declare fields
type JSONSchema struct {
	Type       TypeList               `yaml:"type,omitempty" json:"type,omitempty"`
	Format     string                 `yaml:"format,omitempty" json:"format,omitempty"`
	Properties map[string]*JSONSchema `yaml:"properties,omitempty" json:"properties,omitempty"`
	Items      *JSONSchema            `yaml:"items,omitempty" json:"items,omitempty"`
}

// IsNullable returns whether null is one of the declared types
func (s *JSONSchema) IsNullable() bool {
	return slices.Contains(s.Type, TypeNull)
}

// TypeList is a JSON schema type, which may be a single type name or a list of them
type TypeList []string

func (t *TypeList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*t = TypeList{node.Value}
		return nil
	case yaml.SequenceNode:
		// read the raw values, an unquoted null would otherwise decode as an empty string
		list := make(TypeList, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: type list entries must be strings", item.Line)
			}
			list = append(list, item.Value)
		}
		*t = list
		return nil
	default:
		return fmt.Errorf("line %d: type must be a string or a list of strings", node.Line)
	}
}

func (t TypeList) MarshalYAML() (any, error) {
	if len(t) == 1 {
		return t[0], nil
	}
	return []string(t), nil
}
