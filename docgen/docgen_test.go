package docgen

import (
	"os"
	"path/filepath"
	"testing"

	"docimage/ast"
	"docimage/modules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const libSource = `package lib

// Foos the bar.
//
// ![A ferris][ferris]
//
//docimage:embed "ferris", "images/ferris.png"
func Foo(x int) {
	_ = x
}
`

const readme = "# Crate\n\n![Diagram][diagram]\n\n{{embed-image: \"diagram\", \"images/diagram.svg\"}}\n"

func workspace(t *testing.T) *modules.Workspace {
	t.Helper()
	dir := t.TempDir()
	for rel, data := range map[string]string{
		"go.mod":             "module lib\n",
		"lib.go":             libSource,
		"plain.go":           "package lib\n",
		"README.md":          readme,
		"images/ferris.png":  "abc",
		"images/diagram.svg": "<svg/>",
	} {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
		require.NoError(t, os.WriteFile(path, []byte(data), 0660))
	}

	w, err := modules.LoadWorkspaceFrom(dir, "")
	require.NoError(t, err)
	return w
}

func TestRenderSource(t *testing.T) {
	w := workspace(t)

	page, err := RenderSource(w.Root, "lib.go", "lib.go", []byte(libSource))
	require.NoError(t, err)

	assert.Equal(t, "lib.go.html", page.Href)
	assert.Equal(t, []Symbol{{Category: ast.CategoryFunc, Name: "Foo", Anchor: "L8"}}, page.Symbols)
	assert.Contains(t, page.Main, `<h2 id="L8"><span class="category">func</span> Foo</h2>`)
	assert.Contains(t, page.Main, "<p>Foos the bar.</p>")
	assert.Contains(t, page.Main, "<pre><code>func Foo(x int) {</code></pre>")
	assert.Contains(t, page.Main, `src="data:image/png;base64,YWJj"`)
	assert.Contains(t, page.Main, `alt="A ferris"`)
	assert.NotContains(t, page.Main, "docimage:embed")
}

func TestRenderDocument(t *testing.T) {
	w := workspace(t)

	page, err := RenderDocument(w.Root, "README.md", "README.md", []byte(readme))
	require.NoError(t, err)

	assert.Equal(t, "Crate", page.Title)
	assert.Contains(t, page.Main, `src="data:image/svg+xml;base64,PHN2Zy8+"`)
	assert.NotContains(t, page.Main, "embed-image")
}

func TestPreview(t *testing.T) {
	w := workspace(t)
	outdir := filepath.Join(t.TempDir(), "preview")

	files := []string{
		filepath.Join(w.Dir, "README.md"),
		filepath.Join(w.Dir, "lib.go"),
		filepath.Join(w.Dir, "plain.go"),
	}
	require.NoError(t, Preview(w, outdir, files))

	for _, name := range []string{"main.css", "index.html", "README.md.html", "lib.go.html"} {
		assert.FileExists(t, filepath.Join(outdir, name))
	}
	assert.NoFileExists(t, filepath.Join(outdir, "plain.go.html"))

	index, err := os.ReadFile(filepath.Join(outdir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), `href="lib.go.html#L8"`)
	assert.Contains(t, string(index), `href="README.md.html"`)
}

func TestPreviewFailsWithoutWriting(t *testing.T) {
	w := workspace(t)
	outdir := filepath.Join(t.TempDir(), "preview")

	bad := filepath.Join(w.Dir, "bad.md")
	require.NoError(t, os.WriteFile(bad, []byte("{{embed-image: \"x\", \"missing.png\"}}\n"), 0660))

	require.Error(t, Preview(w, outdir, []string{filepath.Join(w.Dir, "lib.go"), bad}))
	assert.NoDirExists(t, outdir)
}

func TestRelativeHref(t *testing.T) {
	assert.Equal(t, "main.css", relativeHref("index.html", "main.css"))
	assert.Equal(t, "../../main.css", relativeHref("a/b/c.go.html", "main.css"))
}
