package markdown

import (
	"path"
	"path/filepath"
	"strings"
)

// AssetsPrefix marks image paths that live next to the source document.
const AssetsPrefix = "assets/"

// Paths locates a document for image path resolution.
type Paths struct {
	// BasePath is the relative path from the destination file's directory
	// to the output root, e.g. "../..".
	BasePath string
	// SourcePath is the Markdown file the body came from.
	SourcePath string
	// DestPath is the HTML file being produced.
	DestPath string
}

// IsExternal reports whether ref must be emitted unchanged.
func IsExternal(ref string) bool {
	switch {
	case strings.HasPrefix(ref, "http:"), strings.HasPrefix(ref, "https:"):
		return true
	case strings.HasPrefix(ref, "//"), strings.HasPrefix(ref, "/"):
		return true
	case strings.HasPrefix(ref, "data:"), strings.HasPrefix(ref, "#"):
		return true
	}
	return false
}

// ResolveImage rewrites a relative image reference so it resolves from the
// destination file's directory. References under assets/ are relative to
// the source document's directory; other relative references are relative
// to the output root.
func ResolveImage(ref string, p Paths) string {
	if ref == "" || IsExternal(ref) {
		return ref
	}
	if strings.HasPrefix(ref, AssetsPrefix) {
		rel, err := filepath.Rel(filepath.Dir(p.DestPath), filepath.Dir(p.SourcePath))
		if err != nil {
			return ref
		}
		return path.Join(filepath.ToSlash(rel), ref)
	}
	return path.Join(filepath.ToSlash(p.BasePath), ref)
}

// BasePath returns the slash-separated relative path from the directory of
// dest to root, "." when they coincide.
func BasePath(root, dest string) string {
	rel, err := filepath.Rel(filepath.Dir(dest), root)
	if err != nil || rel == "" {
		return "."
	}
	return filepath.ToSlash(filepath.Clean(rel))
}
