package artifact_loader

// Loader resolves the content of a file with one of its extensions
// Loaders provided: [GzipLoader], [ZipLoader], [DelimitedLoader], [JSONLinesLoader]
type Loader interface {
	Identifier() string
	// Extensions returns the lower-case extensions, without a dot, this loader handles
	Extensions() []string
	// Load resolves the named data, nested content is passed back to the resolver
	Load(r *Resolver, name string, data []byte) ([]Content, error)
}
