package types

// RawRow is a single row extracted from a terminal file, before any schema is applied
// Delimited rows carry header-paired Values, JSON lines rows carry Fields
type RawRow struct {
	// 1-based line the row started on
	LineNumber int

	Columns []string
	Values  []string
	// values found beyond the last header column
	Extra []string

	Fields map[string]any

	columnIndex map[string]int
}

func NewDelimitedRow(lineNumber int, columns []string, columnIndex map[string]int, values []string) *RawRow {
	r := &RawRow{
		LineNumber:  lineNumber,
		Columns:     columns,
		columnIndex: columnIndex,
	}
	if len(values) > len(columns) {
		r.Values = values[:len(columns)]
		r.Extra = values[len(columns):]
	} else {
		r.Values = values
	}
	return r
}

func NewFieldsRow(lineNumber int, fields map[string]any) *RawRow {
	return &RawRow{
		LineNumber: lineNumber,
		Fields:     fields,
	}
}

// Get returns the value of the named field
// a header column with no value on this row returns nil, true
func (r *RawRow) Get(name string) (any, bool) {
	if r.Fields != nil {
		v, ok := r.Fields[name]
		return v, ok
	}
	idx, ok := r.columnIndex[name]
	if !ok {
		return nil, false
	}
	if idx >= len(r.Values) {
		return nil, true
	}
	return r.Values[idx], true
}

// Names returns the field names of the row, header order for delimited rows
func (r *RawRow) Names() []string {
	if r.Fields == nil {
		return r.Columns
	}
	names := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		names = append(names, k)
	}
	return names
}
