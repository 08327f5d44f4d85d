// Package sources — path filtering rules.
// Decides which files are vendor pages and how paths are normalized for
// deduplication.
package sources

import (
	"path/filepath"
	"strings"
)

// pageExtensions are the file extensions picked up when walking a directory.
var pageExtensions = map[string]bool{
	".html": true, ".htm": true,
}

// IsPageFile reports whether a file name looks like a saved product page.
func IsPageFile(name string) bool {
	return pageExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsHidden reports whether a file or directory name is hidden (".git",
// ".DS_Store" and the like).
func IsHidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".")
}

// NormalizePath makes a path absolute and clean for deduplication.
func NormalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
