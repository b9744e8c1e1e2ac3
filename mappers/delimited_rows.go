package mappers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/turbot/tailpipe-file-ingest/types"
)

const bom = '\uFEFF'

// DelimitedRows iterates the rows of delimited text
// The first non-blank record is the header; each following record is paired with it
type DelimitedRows struct {
	opts   DelimitedOptions
	reader *bufio.Reader

	line int

	columns     []string
	columnIndex map[string]int
	headerRead  bool
}

func NewDelimitedRows(r io.Reader, opts DelimitedOptions) *DelimitedRows {
	return &DelimitedRows{
		opts:   opts,
		reader: bufio.NewReader(r),
		line:   1,
	}
}

// Columns returns the header, which is available after the first call to Next
func (d *DelimitedRows) Columns() []string {
	return d.columns
}

// Next returns the next row, or io.EOF when the input is exhausted
func (d *DelimitedRows) Next() (*types.RawRow, error) {
	if !d.headerRead {
		if err := d.readHeader(); err != nil {
			return nil, err
		}
	}

	values, line, err := d.readRecord()
	if err != nil {
		return nil, err
	}
	return types.NewDelimitedRow(line, d.columns, d.columnIndex, values), nil
}

func (d *DelimitedRows) readHeader() error {
	header, _, err := d.readRecord()
	if err != nil {
		return err
	}
	header[0] = strings.TrimPrefix(header[0], string(bom))

	d.columns = header
	d.columnIndex = make(map[string]int, len(header))
	for i, c := range header {
		// a repeated column name refers to its last occurrence
		d.columnIndex[c] = i
	}
	d.headerRead = true

	var missing []string
	for _, c := range d.opts.RequiredColumns {
		if _, ok := d.columnIndex[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}

// readRecord returns the fields of the next non-blank record and the line it started on
func (d *DelimitedRows) readRecord() ([]string, int, error) {
	for {
		fields, line, blank, err := d.readRawRecord()
		if err != nil {
			return nil, 0, err
		}
		if !blank {
			return fields, line, nil
		}
	}
}

func (d *DelimitedRows) readRawRecord() (fields []string, startLine int, blank bool, err error) {
	startLine = d.line

	var field strings.Builder
	quoted := false
	// set once the record holds any content, including an empty quoted field
	seen := false
	// true at the start of each field, the only place a quote opens a quoted field
	atFieldStart := true

	endField := func() {
		fields = append(fields, field.String())
		field.Reset()
		atFieldStart = true
	}

	for {
		r, err := d.readRune()
		if err == io.EOF {
			if quoted {
				return nil, 0, false, fmt.Errorf("line %d: unterminated quoted field", startLine)
			}
			if !seen && field.Len() == 0 && len(fields) == 0 {
				return nil, 0, false, io.EOF
			}
			endField()
			return fields, startLine, false, nil
		}
		if err != nil {
			return nil, 0, false, err
		}

		switch {
		case r == 0:
			continue

		case quoted:
			switch {
			case r == d.opts.Quote:
				next, err := d.peekRune()
				if err == nil && next == d.opts.Quote {
					_, _ = d.readRune()
					field.WriteRune(d.opts.Quote)
				} else {
					quoted = false
				}
			case d.opts.HasEscape && r == d.opts.Escape:
				if err := d.writeEscaped(&field, startLine); err != nil {
					return nil, 0, false, err
				}
			default:
				if r == '\n' {
					d.line++
				}
				field.WriteRune(r)
			}

		case r == '\n':
			d.line++
			if !seen && field.Len() == 0 && len(fields) == 0 {
				return nil, startLine, true, nil
			}
			endField()
			return fields, startLine, false, nil

		case r == '\r':
			if next, err := d.peekRune(); err == nil && next == '\n' {
				continue
			}
			field.WriteRune(r)
			seen = true

		case r == d.opts.Delimiter:
			seen = true
			endField()
			continue

		case atFieldStart && r == d.opts.Quote:
			quoted = true
			seen = true

		case d.opts.HasEscape && r == d.opts.Escape:
			seen = true
			if err := d.writeEscaped(&field, startLine); err != nil {
				return nil, 0, false, err
			}

		default:
			seen = true
			field.WriteRune(r)
		}
		atFieldStart = false
	}
}

func (d *DelimitedRows) writeEscaped(field *strings.Builder, startLine int) error {
	r, err := d.readRune()
	if err == io.EOF {
		return fmt.Errorf("line %d: escape character at end of input", startLine)
	}
	if err != nil {
		return err
	}
	if r == '\n' {
		d.line++
	}
	field.WriteRune(r)
	return nil
}

func (d *DelimitedRows) readRune() (rune, error) {
	r, size, err := d.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	if r == utf8.RuneError && size == 1 {
		return 0, ErrInvalidEncoding
	}
	return r, nil
}

func (d *DelimitedRows) peekRune() (rune, error) {
	r, _, err := d.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	return r, d.reader.UnreadRune()
}

// ErrInvalidEncoding is returned when the input is not valid UTF-8
var ErrInvalidEncoding = errors.New("input is not valid UTF-8")
