package mappers

import "github.com/turbot/tailpipe-file-ingest/types"

// RowIterator is a single-pass iterator over the rows of a terminal file
// Sources provided: [DelimitedRows], [JSONLinesRows]
type RowIterator interface {
	// Next returns the next row, or io.EOF when there are no more rows
	Next() (*types.RawRow, error)
}
