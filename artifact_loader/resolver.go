package artifact_loader

import (
	"log/slog"

	"github.com/turbot/tailpipe-file-ingest/mappers"
	"github.com/turbot/tailpipe-file-ingest/types"
)

// Resolver unwraps compressed and archived objects down to the terminal files they contain
type Resolver struct {
	opts    mappers.DelimitedOptions
	loaders map[string]Loader
}

// NewResolver returns a resolver with the default loaders, delimited files are read with opts
func NewResolver(opts mappers.DelimitedOptions) *Resolver {
	r := &Resolver{
		opts:    opts,
		loaders: make(map[string]Loader),
	}
	r.RegisterLoaders(NewGzipLoader(), NewZipLoader(), NewDelimitedLoader(), NewJSONLinesLoader())
	return r
}

func (r *Resolver) RegisterLoaders(loaders ...Loader) {
	for _, l := range loaders {
		for _, ext := range l.Extensions() {
			r.loaders[ext] = l
		}
	}
}

// Resolve returns the contents of the named data in archive order
// Only a *StructuralCorruptionError is returned as an error, every other problem
// is reported as [SkippedContent]
func (r *Resolver) Resolve(name string, data []byte) ([]Content, error) {
	ext := types.Extension(name)
	if ext == "" {
		return []Content{NewSkippedContent(name, UnsupportedFormat, "no file extension")}, nil
	}
	loader, ok := r.loaders[ext]
	if !ok {
		return []Content{NewSkippedContent(name, UnsupportedFormat, "unsupported extension %q", ext)}, nil
	}

	slog.Debug("Resolving content", "name", name, "loader", loader.Identifier(), "bytes", len(data))
	return loader.Load(r, name, data)
}
