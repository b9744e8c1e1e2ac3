package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/turbot/tailpipe-file-ingest/artifact_loader"
	"github.com/turbot/tailpipe-file-ingest/config"
	"github.com/turbot/tailpipe-file-ingest/constants"
	"github.com/turbot/tailpipe-file-ingest/mappers"
	"github.com/turbot/tailpipe-file-ingest/object_source"
	"github.com/turbot/tailpipe-file-ingest/schema"
	"github.com/turbot/tailpipe-file-ingest/types"
	"golang.org/x/exp/slices"
)

// Discoverer infers table schemas by sampling the rows of a few files of each table
type Discoverer struct {
	Source object_source.ObjectSource

	MaxFiles   int
	SampleRate int
	// maximum rows sampled from each file
	MaxRecords int
}

func NewDiscoverer(source object_source.ObjectSource) *Discoverer {
	return &Discoverer{
		Source:     source,
		MaxFiles:   constants.SampleMaxFiles,
		SampleRate: constants.SampleRate,
		MaxRecords: constants.SampleMaxRecords,
	}
}

// DiscoverCatalog returns a catalog with a stream for every table
func (d *Discoverer) DiscoverCatalog(ctx context.Context, tables []*config.TableSpec) (*schema.Catalog, error) {
	catalog := &schema.Catalog{}
	for _, spec := range tables {
		stream, err := d.Discover(ctx, spec)
		if err != nil {
			return nil, fmt.Errorf("failed to discover table %s: %w", spec.TableName, err)
		}
		catalog.Streams = append(catalog.Streams, stream)
	}
	return catalog, nil
}

// Discover samples the files of the table and returns its catalog stream
func (d *Discoverer) Discover(ctx context.Context, spec *config.TableSpec) (*schema.Stream, error) {
	slog.Info("Sampling records to determine table schema", "table", spec.TableName)

	files, skipped, err := d.filesToSample(ctx, spec)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		slog.Warn("Files were skipped during sampling", "table", spec.TableName, "skipped", skipped)
	}

	columns := newColumnTypes()
	sampled := 0
	for _, f := range files {
		n, err := d.sampleFile(f, spec, columns)
		if err != nil {
			return nil, err
		}
		sampled += n
	}

	stream := &schema.Stream{
		TableName: spec.TableName,
		Schema: &schema.JSONSchema{
			Type:       schema.TypeList{schema.TypeObject},
			Properties: make(map[string]*schema.JSONSchema),
		},
		Metadata: make(map[string]*schema.FieldMetadata),
	}
	if sampled == 0 {
		slog.Warn("No rows sampled, the table schema is empty", "table", spec.TableName)
		return stream, nil
	}

	for _, name := range columns.order {
		stream.Schema.Properties[name] = columns.property(name, slices.Contains(spec.DateOverrides, name))
		stream.Metadata[name] = fieldMetadata(slices.Contains(spec.KeyProperties, name))
	}
	for name, prop := range autoFieldProperties() {
		stream.Schema.Properties[name] = prop
		stream.Metadata[name] = fieldMetadata(true)
	}
	slog.Info("Discovered table schema", "table", spec.TableName, "columns", len(columns.order), "rows_sampled", sampled)
	return stream, nil
}

// filesToSample resolves matching objects, in key order, until MaxFiles readable files are found
func (d *Discoverer) filesToSample(ctx context.Context, spec *config.TableSpec) ([]artifact_loader.TerminalContent, int, error) {
	enumeration, err := object_source.Enumerate(ctx, d.Source, spec, time.Time{})
	if err != nil {
		return nil, 0, err
	}
	objects := enumeration.Objects
	slices.SortFunc(objects, func(a, b *types.ObjectInfo) int {
		return strings.Compare(a.Key, b.Key)
	})

	resolver := artifact_loader.NewResolver(mappers.OptionsForTable(spec))
	var files []artifact_loader.TerminalContent
	skipped := 0
	for _, obj := range objects {
		if len(files) >= d.MaxFiles {
			break
		}
		if obj.Size == 0 {
			skipped++
			continue
		}
		data, err := d.download(ctx, obj)
		if err != nil {
			return nil, 0, err
		}
		contents, err := resolver.Resolve(obj.Key, data)
		if err != nil {
			return nil, 0, err
		}
		for _, c := range contents {
			switch content := c.(type) {
			case *artifact_loader.SkippedContent:
				slog.Warn("Skipping file for sampling", "name", content.Name(), "reason", content.Reason, "detail", content.Message)
				skipped++
			case artifact_loader.TerminalContent:
				if len(files) < d.MaxFiles {
					files = append(files, content)
				}
			}
		}
	}
	return files, skipped, nil
}

func (d *Discoverer) download(ctx context.Context, obj *types.ObjectInfo) ([]byte, error) {
	r, err := d.Source.Open(ctx, obj.Key)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", obj.Key, err)
	}
	return data, nil
}

// sampleFile observes every SampleRate-th row of the file, up to MaxRecords rows
func (d *Discoverer) sampleFile(f artifact_loader.TerminalContent, spec *config.TableSpec, columns *columnTypes) (int, error) {
	slog.Info("Sampling file", "name", f.Name(), "max_records", d.MaxRecords, "sample_rate", d.SampleRate)

	rows := f.Rows()
	seen := make(map[string]struct{})
	sampled := 0
	for i := 0; sampled < d.MaxRecords; i++ {
		row, err := rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sampled, fmt.Errorf("failed to sample %s: %w", f.Name(), err)
		}
		if i%d.SampleRate != 0 {
			continue
		}
		for _, name := range row.Names() {
			v, _ := row.Get(name)
			columns.observe(name, v)
			seen[name] = struct{}{}
		}
		sampled++
	}

	// delimited headers are checked when the file is resolved, json lines are checked here
	if _, ok := f.(*artifact_loader.JSONLinesContent); ok && sampled > 0 {
		var missing []string
		for _, required := range append(slices.Clone(spec.KeyProperties), spec.DateOverrides...) {
			if _, ok := seen[required]; !ok {
				missing = append(missing, required)
			}
		}
		if len(missing) > 0 {
			return sampled, fmt.Errorf("JSONL file %s is missing required keys %v", f.Name(), missing)
		}
	}
	slog.Info("Sampled rows", "name", f.Name(), "rows", sampled)
	return sampled, nil
}

func fieldMetadata(automatic bool) *schema.FieldMetadata {
	if automatic {
		return &schema.FieldMetadata{Inclusion: schema.InclusionAutomatic}
	}
	selected := true
	return &schema.FieldMetadata{Inclusion: schema.InclusionAvailable, Selected: &selected}
}

func autoFieldProperties() map[string]*schema.JSONSchema {
	str := func() *schema.JSONSchema { return &schema.JSONSchema{Type: schema.TypeList{schema.TypeString}} }
	return map[string]*schema.JSONSchema{
		constants.SdcSourceBucket: str(),
		constants.SdcSourceFile:   str(),
		constants.SdcRecordID:     str(),
		constants.SdcSourceLineNo: {Type: schema.TypeList{schema.TypeInteger}},
		constants.SdcExtra: {
			Type:  schema.TypeList{schema.TypeNull, schema.TypeArray},
			Items: &schema.JSONSchema{Type: schema.TypeList{schema.TypeString}},
		},
	}
}
