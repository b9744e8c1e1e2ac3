package types

import (
	"path"
	"strings"
)

// compressed and archive formats - these can only be unwrapped at the top level
var compressedExtensions = map[string]struct{}{
	"zip":  {},
	"gz":   {},
	"tgz":  {},
	"tar":  {},
	"bz2":  {},
	"xz":   {},
	"zst":  {},
	"7z":   {},
	"gzip": {},
}

// Extension returns the lower-cased extension of the last path segment of name, without the dot
// an empty string means the name has no extension
func Extension(name string) string {
	base := path.Base(name)
	idx := strings.LastIndex(base, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(base[idx+1:])
}

// IsCompressedExtension returns whether ext names a compression or archive format
func IsCompressedExtension(ext string) bool {
	_, ok := compressedExtensions[strings.ToLower(ext)]
	return ok
}

// HasDoubleCompressionSuffix returns whether name ends in two stacked compression suffixes, e.g. .tar.gz
func HasDoubleCompressionSuffix(name string) bool {
	outer := Extension(name)
	if !IsCompressedExtension(outer) {
		return false
	}
	base := path.Base(name)
	inner := base[:len(base)-len(outer)-1]
	return IsCompressedExtension(Extension(inner))
}
