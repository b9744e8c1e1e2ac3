package mappers

import (
	"fmt"

	"github.com/turbot/tailpipe-file-ingest/config"
	"github.com/turbot/tailpipe-file-ingest/constants"
)

// DelimitedOptions controls how delimited text is tokenized
type DelimitedOptions struct {
	Delimiter rune
	Quote     rune
	// Escape is only honoured when HasEscape is set
	Escape    rune
	HasEscape bool

	// header columns which must be present
	RequiredColumns []string
}

// DefaultDelimitedOptions returns comma delimited, double quoted options with no escape char
func DefaultDelimitedOptions() DelimitedOptions {
	return DelimitedOptions{
		Delimiter: []rune(constants.DefaultDelimiter)[0],
		Quote:     []rune(constants.DefaultQuoteChar)[0],
	}
}

// OptionsForTable builds the delimited options declared by a table
func OptionsForTable(spec *config.TableSpec) DelimitedOptions {
	opts := DelimitedOptions{
		Delimiter: spec.GetDelimiter(),
		Quote:     spec.GetQuoteChar(),
	}
	opts.Escape, opts.HasEscape = spec.GetEscapeChar()
	opts.RequiredColumns = append(opts.RequiredColumns, spec.KeyProperties...)
	opts.RequiredColumns = append(opts.RequiredColumns, spec.DateOverrides...)
	return opts
}

// MissingColumnsError is returned when a header lacks required columns
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("header is missing required columns %v", e.Columns)
}
