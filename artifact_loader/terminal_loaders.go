package artifact_loader

import (
	"bytes"
	"errors"
	"io"

	"github.com/turbot/tailpipe-file-ingest/mappers"
)

const (
	DelimitedLoaderIdentifier = "delimited_loader"
	JSONLinesLoaderIdentifier = "json_lines_loader"
)

// DelimitedLoader resolves csv and txt files to [DelimitedContent]
type DelimitedLoader struct{}

func NewDelimitedLoader() Loader {
	return &DelimitedLoader{}
}

func (d *DelimitedLoader) Identifier() string {
	return DelimitedLoaderIdentifier
}

func (d *DelimitedLoader) Extensions() []string {
	return []string{"csv", "txt"}
}

func (d *DelimitedLoader) Load(r *Resolver, name string, data []byte) ([]Content, error) {
	rows := mappers.NewDelimitedRows(bytes.NewReader(data), r.opts)
	count, skipped := scan(name, rows)
	if skipped != nil {
		return []Content{skipped}, nil
	}
	return []Content{&DelimitedContent{name: name, data: data, opts: r.opts, rowCount: count}}, nil
}

// JSONLinesLoader resolves jsonl files to [JSONLinesContent]
type JSONLinesLoader struct{}

func NewJSONLinesLoader() Loader {
	return &JSONLinesLoader{}
}

func (j *JSONLinesLoader) Identifier() string {
	return JSONLinesLoaderIdentifier
}

func (j *JSONLinesLoader) Extensions() []string {
	return []string{"jsonl"}
}

func (j *JSONLinesLoader) Load(_ *Resolver, name string, data []byte) ([]Content, error) {
	count, skipped := scan(name, mappers.NewJSONLinesRows(bytes.NewReader(data)))
	if skipped != nil {
		return []Content{skipped}, nil
	}
	return []Content{&JSONLinesContent{name: name, data: data, rowCount: count}}, nil
}

// scan reads every row so that a file which cannot be decoded is skipped before any of its
// rows are emitted
func scan(name string, rows mappers.RowIterator) (int, *SkippedContent) {
	count := 0
	for {
		_, err := rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, NewSkippedContent(name, MalformedContent, "%s", err.Error())
		}
		count++
	}
	if count == 0 {
		return 0, NewSkippedContent(name, EmptyObject, "no rows found")
	}
	return count, nil
}
