package schema

import (
	"github.com/turbot/tailpipe-file-ingest/constants"
)

// Context is the schema a table is synced with: its declared properties and the role of each field
// Auto, Selected and Filtered are disjoint
type Context struct {
	Properties map[string]*JSONSchema

	// fields which are always emitted
	Auto map[string]struct{}
	// fields which are emitted when present in the row
	Selected map[string]struct{}
	// fields which are never emitted
	Filtered map[string]struct{}

	// native source type of each field which declares one
	SourceTypes map[string]string
	// fields which are always parsed as date-time
	DateOverrides map[string]struct{}
}

// NewContext builds the context for a catalog stream
func NewContext(stream *Stream, dateOverrides []string) *Context {
	var props map[string]*JSONSchema
	if stream.Schema != nil {
		props = stream.Schema.Properties
	}
	c := &Context{
		Properties:    props,
		DateOverrides: make(map[string]struct{}, len(dateOverrides)),
	}
	c.Auto, c.Selected, c.Filtered, c.SourceTypes = ResolveFilterFields(props, stream.Metadata)
	for _, d := range dateOverrides {
		c.DateOverrides[d] = struct{}{}
	}
	return c
}

// ResolveFilterFields assigns every declared property a role from its metadata
// automatic fields are auto, unsupported or deselected fields are filtered and everything
// else (including fields with no metadata) is selected
func ResolveFilterFields(properties map[string]*JSONSchema, metadata map[string]*FieldMetadata) (auto, selected, filtered map[string]struct{}, sourceTypes map[string]string) {
	auto = make(map[string]struct{})
	selected = make(map[string]struct{})
	filtered = make(map[string]struct{})
	sourceTypes = make(map[string]string)

	for name := range properties {
		md := metadata[name]
		if md != nil && md.SourceType != "" {
			sourceTypes[name] = md.SourceType
		}

		switch {
		case md != nil && md.Inclusion == InclusionAutomatic:
			auto[name] = struct{}{}
		case constants.IsAutoField(name) && md == nil:
			auto[name] = struct{}{}
		case md != nil && md.Inclusion == InclusionUnsupported:
			filtered[name] = struct{}{}
		case md != nil && md.Selected != nil && !*md.Selected:
			filtered[name] = struct{}{}
		default:
			selected[name] = struct{}{}
		}
	}
	return auto, selected, filtered, sourceTypes
}

// BuildTypeOverrides returns the source type of every modified column which has one
func BuildTypeOverrides(updates []*ColumnUpdate, sourceTypes map[string]string) map[string]string {
	res := make(map[string]string)
	for _, u := range updates {
		if u.ColumnUpdateType != ColumnUpdateModify {
			continue
		}
		if t, ok := sourceTypes[u.Column]; ok {
			res[u.Column] = t
		}
	}
	return res
}
