package artifact_loader

import (
	"bytes"
	"io"
	"path"

	"github.com/klauspost/compress/gzip"
	"github.com/turbot/tailpipe-file-ingest/types"
)

const GzipLoaderIdentifier = "gzip_loader"

// GzipLoader decompresses gzip data and resolves it under the file name stored in the gzip header
type GzipLoader struct{}

func NewGzipLoader() Loader {
	return &GzipLoader{}
}

func (g *GzipLoader) Identifier() string {
	return GzipLoaderIdentifier
}

func (g *GzipLoader) Extensions() []string {
	return []string{"gz"}
}

func (g *GzipLoader) Load(r *Resolver, name string, data []byte) ([]Content, error) {
	if types.HasDoubleCompressionSuffix(name) {
		return []Content{NewSkippedContent(name, UnsupportedFormat, "nested compression is not supported")}, nil
	}

	gzReader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &StructuralCorruptionError{Name: name, Err: err}
	}
	defer gzReader.Close()

	fileData, err := io.ReadAll(gzReader)
	if err != nil {
		return nil, &StructuralCorruptionError{Name: name, Err: err}
	}

	// the original file name is optional in the gzip header and there is no safe way to infer it
	if gzReader.Header.Name == "" {
		return []Content{NewSkippedContent(name, MissingArchiveMetadata, "gzip header has no original file name")}, nil
	}
	innerName := path.Base(gzReader.Header.Name)
	if types.IsCompressedExtension(types.Extension(innerName)) {
		return []Content{NewSkippedContent(name, UnsupportedFormat, "nested compression in %s is not supported", innerName)}, nil
	}

	return r.Resolve(name+"/"+innerName, fileData)
}
