// Package output handles file naming and writing for review sheets.
// Filenames are derived from the batch label (e.g., "batch-2024_05.md").
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultLabel = "review"

// Writer writes rendered review sheets to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Write stores data as <label><ext> and returns the written path.
func (w *Writer) Write(label string, data []byte, ext string) (string, error) {
	path := filepath.Join(w.OutputDir, Filename(label)+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// Filename turns a batch label into a flat, portable file stem.
// Example: "wix/oil filters" → wix_oil_filters
func Filename(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return defaultLabel
	}
	return sanitize(label)
}

// sanitize replaces everything but letters, digits, '-' and '_' with
// underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
			b.WriteRune(ch)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
