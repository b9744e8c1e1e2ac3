package schema

import (
	"errors"
	"log/slog"

	"github.com/turbot/tailpipe-file-ingest/constants"
	"github.com/turbot/tailpipe-file-ingest/types"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Transformer converts raw rows into records
// A transformer is used for a single row and must be closed afterwards
type Transformer struct {
	// field name to source type, applied before the declared types
	overrides map[string]string
	dropped   map[string]struct{}
}

func NewTransformer(overrides map[string]string) *Transformer {
	return &Transformer{
		overrides: overrides,
		dropped:   make(map[string]struct{}),
	}
}

// Transform returns the record for row: auto fields, then selected fields present in the row,
// each converted to its declared type. Auto values take precedence over row values
func (t *Transformer) Transform(row *types.RawRow, ctx *Context, autoValues map[string]any) (Record, error) {
	rec := make(Record, len(ctx.Auto)+len(ctx.Selected))

	for name := range ctx.Auto {
		v, ok := lookup(name, row, autoValues)
		if !ok {
			// pipeline fields such as _sdc_extra are only set when they apply
			if constants.IsAutoField(name) {
				continue
			}
			rec[name] = nil
			continue
		}
		if err := t.set(rec, name, v, ctx); err != nil {
			return nil, err
		}
	}

	for name := range ctx.Selected {
		v, ok := lookup(name, row, autoValues)
		if !ok {
			continue
		}
		if err := t.set(rec, name, v, ctx); err != nil {
			return nil, err
		}
	}

	for _, name := range row.Names() {
		if _, ok := rec[name]; !ok {
			t.dropped[name] = struct{}{}
		}
	}
	return rec, nil
}

// Close logs the fields which were dropped from the row
func (t *Transformer) Close() {
	if len(t.dropped) == 0 {
		return
	}
	names := maps.Keys(t.dropped)
	slices.Sort(names)
	slog.Debug("Fields removed from record, they are filtered or not declared in the schema", "fields", names)
}

func (t *Transformer) set(rec Record, name string, v any, ctx *Context) error {
	res, err := t.coerceField(name, v, ctx)
	if err != nil {
		return err
	}
	rec[name] = res
	return nil
}

func (t *Transformer) coerceField(name string, v any, ctx *Context) (any, error) {
	prop := ctx.Properties[name]
	if v == nil {
		return nil, nil
	}

	_, isDateOverride := ctx.DateOverrides[name]
	if isDateOverride || (prop != nil && prop.Format == FormatDateTime) {
		res, err := toDateTime(v)
		if err != nil {
			return nil, &SchemaMismatchError{Field: name, Value: v, Types: []string{FormatDateTime}}
		}
		return res, nil
	}

	var typeNames []string
	if override, ok := t.overrides[name]; ok {
		typeNames = append(typeNames, override)
	}
	nullable := true
	if prop != nil {
		typeNames = append(typeNames, prop.Type...)
		nullable = prop.IsNullable()
	}
	if len(typeNames) == 0 {
		return v, nil
	}

	res, err := coerce(v, typeNames, nullable)
	if errors.Is(err, errNotCoercible) {
		return nil, &SchemaMismatchError{Field: name, Value: v, Types: typeNames}
	}
	return res, err
}

func lookup(name string, row *types.RawRow, autoValues map[string]any) (any, bool) {
	if v, ok := autoValues[name]; ok {
		return v, true
	}
	return row.Get(name)
}
