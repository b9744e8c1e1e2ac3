package discovery

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/tailpipe-file-ingest/config"
	"github.com/turbot/tailpipe-file-ingest/constants"
	"github.com/turbot/tailpipe-file-ingest/object_source"
	"github.com/turbot/tailpipe-file-ingest/schema"
)

func writeFile(t *testing.T, root, rel string, content []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, content, 0644))
}

func gzipped(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	w.Name = name
	_, err := w.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func newDiscoverer(t *testing.T, root string) *Discoverer {
	t.Helper()
	src, err := object_source.NewFileSystemSource(&object_source.FileSystemSourceConfig{Path: root})
	require.NoError(t, err)
	return NewDiscoverer(src)
}

func tableSpec(pattern string, keys []string, dates []string) *config.TableSpec {
	recursive := true
	return &config.TableSpec{
		TableName:       "orders",
		SearchPattern:   pattern,
		KeyProperties:   keys,
		DateOverrides:   dates,
		RecursiveSearch: &recursive,
	}
}

func propertyType(t *testing.T, stream *schema.Stream, name string) schema.TypeList {
	t.Helper()
	p, ok := stream.Schema.Properties[name]
	require.True(t, ok, "missing property %s", name)
	return p.Type
}

func TestDiscover_Delimited(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "orders/a.csv", []byte("id,amount,note,created\n1,2.5,hello,2024-01-02\n2,3,world,2024-01-03\n"))

	d := newDiscoverer(t, root)
	d.SampleRate = 1
	stream, err := d.Discover(context.Background(), tableSpec(`\.csv$`, []string{"id"}, []string{"created"}))
	require.NoError(t, err)

	assert.Equal(t, "orders", stream.TableName)
	assert.Equal(t, schema.TypeList{schema.TypeNull, schema.TypeInteger}, propertyType(t, stream, "id"))
	assert.Equal(t, schema.TypeList{schema.TypeNull, schema.TypeNumber}, propertyType(t, stream, "amount"))
	assert.Equal(t, schema.TypeList{schema.TypeNull, schema.TypeString}, propertyType(t, stream, "note"))
	assert.Equal(t, schema.FormatDateTime, stream.Schema.Properties["created"].Format)

	assert.Equal(t, schema.InclusionAutomatic, stream.Metadata["id"].Inclusion)
	assert.Equal(t, schema.InclusionAvailable, stream.Metadata["note"].Inclusion)
	require.NotNil(t, stream.Metadata["note"].Selected)
	assert.True(t, *stream.Metadata["note"].Selected)

	for _, f := range constants.AutoFields {
		assert.Contains(t, stream.Schema.Properties, f)
		assert.Equal(t, schema.InclusionAutomatic, stream.Metadata[f].Inclusion)
	}
	assert.Equal(t, schema.TypeList{schema.TypeInteger}, propertyType(t, stream, constants.SdcSourceLineNo))
	assert.Equal(t, schema.TypeList{schema.TypeString}, stream.Schema.Properties[constants.SdcExtra].Items.Type)
}

func TestDiscover_JSONLines(t *testing.T) {
	root := t.TempDir()
	lines := []string{
		`{"id": 1, "price": 1.5, "active": true, "tags": ["a"], "meta": {"k": "v"}, "name": "x"}`,
		`{"id": 2, "price": 2, "active": false, "tags": [], "meta": {}, "name": 3}`,
	}
	writeFile(t, root, "orders/a.jsonl", []byte(strings.Join(lines, "\n")))

	d := newDiscoverer(t, root)
	d.SampleRate = 1
	stream, err := d.Discover(context.Background(), tableSpec(`\.jsonl$`, []string{"id"}, nil))
	require.NoError(t, err)

	tests := map[string]string{
		"id":     schema.TypeInteger,
		"price":  schema.TypeNumber,
		"active": schema.TypeBoolean,
		"tags":   schema.TypeArray,
		"meta":   schema.TypeObject,
		"name":   schema.TypeString,
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, schema.TypeList{schema.TypeNull, want}, propertyType(t, stream, name))
		})
	}
}

func TestDiscover_JSONLinesMissingKey(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "orders/a.jsonl", []byte(`{"name": "x"}`+"\n"))

	d := newDiscoverer(t, root)
	_, err := d.Discover(context.Background(), tableSpec(`\.jsonl$`, []string{"id"}, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id")
}

func TestDiscover_SampleLimits(t *testing.T) {
	root := t.TempDir()
	var sb strings.Builder
	sb.WriteString("id,value\n")
	for i := 0; i < 20; i++ {
		// only the rows at sampled positions are numeric
		if i%5 == 0 {
			fmt.Fprintf(&sb, "%d,%d\n", i, i)
		} else {
			fmt.Fprintf(&sb, "%d,text\n", i)
		}
	}
	writeFile(t, root, "orders/a.csv", []byte(sb.String()))

	d := newDiscoverer(t, root)
	stream, err := d.Discover(context.Background(), tableSpec(`\.csv$`, []string{"id"}, nil))
	require.NoError(t, err)
	assert.Equal(t, schema.TypeList{schema.TypeNull, schema.TypeInteger}, propertyType(t, stream, "value"))

	// with a record limit of one only the first row is sampled
	d.SampleRate = 1
	d.MaxRecords = 1
	stream, err = d.Discover(context.Background(), tableSpec(`\.csv$`, []string{"id"}, nil))
	require.NoError(t, err)
	assert.Equal(t, schema.TypeList{schema.TypeNull, schema.TypeInteger}, propertyType(t, stream, "value"))
}

func TestDiscover_MaxFilesAndSkips(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "orders/a.csv", []byte("id,a\n1,x\n"))
	writeFile(t, root, "orders/b.csv", []byte("id,b\n1,x\n"))
	writeFile(t, root, "orders/c.csv", []byte("id,c\n1,x\n"))
	writeFile(t, root, "orders/0.csv", []byte{})
	writeFile(t, root, "orders/1.csv.gz", gzipped(t, "1.csv", []byte("id,z\n1,1\n")))
	writeFile(t, root, "orders/2.parquet", []byte("binary"))

	d := newDiscoverer(t, root)
	d.MaxFiles = 2
	stream, err := d.Discover(context.Background(), tableSpec(`orders/`, []string{"id"}, nil))
	require.NoError(t, err)

	// key order: 0.csv (empty), 1.csv.gz, 2.parquet (unsupported), a.csv
	assert.Contains(t, stream.Schema.Properties, "z")
	assert.Contains(t, stream.Schema.Properties, "a")
	assert.NotContains(t, stream.Schema.Properties, "b")
	assert.NotContains(t, stream.Schema.Properties, "c")
}

func TestDiscover_NoRows(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "orders/a.txt", []byte("id,name\n"))

	d := newDiscoverer(t, root)
	stream, err := d.Discover(context.Background(), tableSpec(`\.txt$`, []string{"id"}, nil))
	require.NoError(t, err)
	assert.Empty(t, stream.Schema.Properties)
	assert.Empty(t, stream.Metadata)
}

func TestDiscover_NoMatchingObjects(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "orders/a.csv", []byte("id\n1\n"))

	d := newDiscoverer(t, root)
	_, err := d.Discover(context.Background(), tableSpec(`\.jsonl$`, []string{"id"}, nil))
	assert.ErrorIs(t, err, object_source.ErrNoMatchingObjects)
}

func TestDiscoverCatalog(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "orders/a.csv", []byte("id,name\n1,x\n"))

	d := newDiscoverer(t, root)
	catalog, err := d.DiscoverCatalog(context.Background(), []*config.TableSpec{tableSpec(`\.csv$`, []string{"id"}, nil)})
	require.NoError(t, err)
	require.Len(t, catalog.Streams, 1)

	data, err := catalog.Marshal()
	require.NoError(t, err)
	parsed, err := schema.ParseCatalog(data)
	require.NoError(t, err)
	stream := parsed.Stream("orders")
	require.NotNil(t, stream)
	assert.Equal(t, schema.TypeList{schema.TypeNull, schema.TypeInteger}, stream.Schema.Properties["id"].Type)
}

func Test_widen(t *testing.T) {
	tests := []struct {
		name string
		a, b int
		want int
	}{
		{name: "none", a: kindNone, b: kindInteger, want: kindInteger},
		{name: "same", a: kindInteger, b: kindInteger, want: kindInteger},
		{name: "integer number", a: kindInteger, b: kindNumber, want: kindNumber},
		{name: "number string", a: kindNumber, b: kindString, want: kindString},
		{name: "bool integer", a: kindBoolean, b: kindInteger, want: kindString},
		{name: "ignore null", a: kindObject, b: kindNone, want: kindObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, widen(tt.a, tt.b))
		})
	}
}
