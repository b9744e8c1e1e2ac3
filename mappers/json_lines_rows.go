package mappers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/turbot/tailpipe-file-ingest/types"
)

// JSONLinesRows iterates the objects of line-delimited JSON
// Blank lines and empty objects are skipped, numbers are kept as json.Number
type JSONLinesRows struct {
	reader *bufio.Reader
	line   int
}

func NewJSONLinesRows(r io.Reader) *JSONLinesRows {
	return &JSONLinesRows{reader: bufio.NewReader(r)}
}

// Next returns the next row, or io.EOF when the input is exhausted
func (j *JSONLinesRows) Next() (*types.RawRow, error) {
	for {
		line, err := j.reader.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if len(line) == 0 && errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		j.line++

		fields, decodeErr := decodeLine(line)
		if decodeErr != nil {
			return nil, fmt.Errorf("line %d: %w", j.line, decodeErr)
		}
		if len(fields) > 0 {
			return types.NewFieldsRow(j.line, fields), nil
		}
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
	}
}

func decodeLine(line []byte) (map[string]any, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, nil
	}
	if !utf8.Valid(line) {
		return nil, ErrInvalidEncoding
	}

	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.New("invalid JSON: unexpected data after value")
	}

	fields, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %T", value)
	}
	return fields, nil
}
