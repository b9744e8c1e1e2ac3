package artifact_loader

import (
	"bytes"
	"fmt"

	"github.com/turbot/tailpipe-file-ingest/mappers"
)

// SkipReason describes why an object (or archive entry) produced no rows
type SkipReason string

const (
	UnsupportedFormat      SkipReason = "unsupported_format"
	MalformedContent       SkipReason = "malformed_content"
	EmptyObject            SkipReason = "empty_object"
	MissingArchiveMetadata SkipReason = "missing_archive_metadata"
)

// Content is a resolved piece of an object: either a terminal file which can be read
// as rows or a skipped file
// Variants: [*DelimitedContent], [*JSONLinesContent], [*SkippedContent]
type Content interface {
	// Name is the path of the content, nested archive members are named key/member
	Name() string
	content()
}

// TerminalContent is content which produces rows
type TerminalContent interface {
	Content
	Rows() mappers.RowIterator
	// RowCount is the number of rows found when the content was scanned
	RowCount() int
}

type DelimitedContent struct {
	name     string
	data     []byte
	opts     mappers.DelimitedOptions
	rowCount int
}

func (c *DelimitedContent) Name() string  { return c.name }
func (c *DelimitedContent) RowCount() int { return c.rowCount }
func (c *DelimitedContent) content()      {}

func (c *DelimitedContent) Rows() mappers.RowIterator {
	return mappers.NewDelimitedRows(bytes.NewReader(c.data), c.opts)
}

type JSONLinesContent struct {
	name     string
	data     []byte
	rowCount int
}

func (c *JSONLinesContent) Name() string  { return c.name }
func (c *JSONLinesContent) RowCount() int { return c.rowCount }
func (c *JSONLinesContent) content()      {}

func (c *JSONLinesContent) Rows() mappers.RowIterator {
	return mappers.NewJSONLinesRows(bytes.NewReader(c.data))
}

// SkippedContent is a file which was recognised but cannot be read, it counts as one skip
type SkippedContent struct {
	name    string
	Reason  SkipReason
	Message string
}

func NewSkippedContent(name string, reason SkipReason, format string, args ...any) *SkippedContent {
	return &SkippedContent{name: name, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func (c *SkippedContent) Name() string { return c.name }
func (c *SkippedContent) content()     {}

func (c *SkippedContent) String() string {
	return fmt.Sprintf("%s skipped (%s): %s", c.name, c.Reason, c.Message)
}
