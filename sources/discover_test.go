package sources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.html"), "<p>b</p>")
	writeFile(t, filepath.Join(root, "a.HTM"), "<p>a</p>")
	writeFile(t, filepath.Join(root, "notes.txt"), "skip")
	writeFile(t, filepath.Join(root, "sub", "c.html"), "<p>c</p>")
	writeFile(t, filepath.Join(root, ".cache", "d.html"), "<p>d</p>")
	writeFile(t, filepath.Join(root, ".hidden.html"), "<p>h</p>")

	files, errs := Discover([]string{root, filepath.Join(root, "b.html")})
	assert.Empty(t, errs)
	assert.Equal(t, []string{
		filepath.Join(root, "a.HTM"),
		filepath.Join(root, "b.html"),
		filepath.Join(root, "sub", "c.html"),
	}, files)
}

func TestDiscoverExplicitFileAndMissingPath(t *testing.T) {
	root := t.TempDir()
	explicit := filepath.Join(root, "page.txt")
	writeFile(t, explicit, "<p>x</p>")
	missing := filepath.Join(root, "missing")

	files, errs := Discover([]string{explicit, missing})
	assert.Equal(t, []string{explicit}, files)
	require.Len(t, errs, 1)

	var pe *PathError
	require.ErrorAs(t, errs[0], &pe)
	assert.Equal(t, missing, pe.Path)
	assert.ErrorIs(t, errs[0], os.ErrNotExist)
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "wl7476.html"), "<h1>WL7476</h1>")

	docs, errs := Load([]string{root})
	assert.Empty(t, errs)
	require.Len(t, docs, 1)
	assert.Equal(t, "wl7476.html", docs[0].Source)
	assert.Equal(t, "<h1>WL7476</h1>", string(docs[0].Content))
}

func TestQueueDeduplicates(t *testing.T) {
	q := NewQueue()
	assert.True(t, q.Add("pages/a.html"))
	assert.False(t, q.Add("./pages/a.html"))
	assert.True(t, q.Add("pages/b.html"))
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, []string{"pages/a.html", "pages/b.html"}, q.All())
}

func TestRules(t *testing.T) {
	assert.True(t, IsPageFile("a.html"))
	assert.True(t, IsPageFile("A.HTM"))
	assert.False(t, IsPageFile("a.pdf"))
	assert.True(t, IsHidden(".git"))
	assert.False(t, IsHidden("."))
	assert.False(t, IsHidden("pages"))
}
