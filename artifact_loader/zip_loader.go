package artifact_loader

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
	"github.com/turbot/tailpipe-file-ingest/types"
)

const ZipLoaderIdentifier = "zip_loader"

// ZipLoader resolves every file entry of a zip archive in archive order
type ZipLoader struct{}

func NewZipLoader() Loader {
	return &ZipLoader{}
}

func (z *ZipLoader) Identifier() string {
	return ZipLoaderIdentifier
}

func (z *ZipLoader) Extensions() []string {
	return []string{"zip"}
}

func (z *ZipLoader) Load(r *Resolver, name string, data []byte) ([]Content, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &StructuralCorruptionError{Name: name, Err: err}
	}

	var res []Content
	for _, f := range archive.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entryName := name + "/" + f.Name
		if types.IsCompressedExtension(types.Extension(f.Name)) {
			res = append(res, NewSkippedContent(entryName, UnsupportedFormat, "nested compression is not supported"))
			continue
		}

		entryData, err := readZipEntry(f)
		if err != nil {
			return nil, &StructuralCorruptionError{Name: entryName, Err: err}
		}
		contents, err := r.Resolve(entryName, entryData)
		if err != nil {
			return nil, err
		}
		res = append(res, contents...)
	}
	return res, nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening entry: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("error reading entry: %w", err)
	}
	return data, nil
}
