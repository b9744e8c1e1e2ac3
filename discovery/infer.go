package discovery

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/turbot/tailpipe-file-ingest/schema"
)

// observed kinds, widened as more values are seen: integer < number < string
const (
	kindNone = iota
	kindInteger
	kindNumber
	kindBoolean
	kindObject
	kindArray
	kindString
)

var kindTypes = map[int]string{
	kindInteger: schema.TypeInteger,
	kindNumber:  schema.TypeNumber,
	kindBoolean: schema.TypeBoolean,
	kindObject:  schema.TypeObject,
	kindArray:   schema.TypeArray,
	kindString:  schema.TypeString,
}

// columnTypes tracks the widest kind seen for each column
type columnTypes struct {
	kinds map[string]int
	order []string
}

func newColumnTypes() *columnTypes {
	return &columnTypes{kinds: make(map[string]int)}
}

func (c *columnTypes) observe(name string, value any) {
	current, seen := c.kinds[name]
	if !seen {
		c.order = append(c.order, name)
	}
	c.kinds[name] = widen(current, kindOf(value))
}

func kindOf(value any) int {
	switch v := value.(type) {
	case nil:
		return kindNone
	case string:
		return kindOfString(v)
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return kindInteger
		}
		return kindNumber
	case bool:
		return kindBoolean
	case map[string]any:
		return kindObject
	case []any:
		return kindArray
	default:
		return kindString
	}
}

// delimited values are always strings, numeric text is typed as a number
func kindOfString(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return kindNone
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return kindInteger
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return kindNumber
	}
	return kindString
}

func widen(a, b int) int {
	switch {
	case a == kindNone:
		return b
	case b == kindNone || a == b:
		return a
	case (a == kindInteger && b == kindNumber) || (a == kindNumber && b == kindInteger):
		return kindNumber
	default:
		// mixed kinds can only be represented as text
		return kindString
	}
}

// property returns the declared schema of a column
func (c *columnTypes) property(name string, dateTime bool) *schema.JSONSchema {
	if dateTime {
		return &schema.JSONSchema{Type: schema.TypeList{schema.TypeNull, schema.TypeString}, Format: schema.FormatDateTime}
	}
	t, ok := kindTypes[c.kinds[name]]
	if !ok {
		t = schema.TypeString
	}
	return &schema.JSONSchema{Type: schema.TypeList{schema.TypeNull, t}}
}
