package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	tests := map[string]string{
		"":                "review",
		"   ":             "review",
		"october":         "october",
		"wix/oil filters": "wix_oil_filters",
		"batch-2024_05":   "batch-2024_05",
		"filtros ñ":       "filtros__",
	}
	for in, want := range tests {
		assert.Equal(t, want, Filename(in), in)
	}
}

func TestWriterWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w, err := New(dir)
	require.NoError(t, err)

	path, err := w.Write("wix/oct", []byte("# sheet"), ".md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "wix_oct.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# sheet", string(data))
}
