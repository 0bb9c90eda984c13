package modules

import (
	"os"
	"path/filepath"
	"testing"

	"docimage/diagnostics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte{}, 0660))
}

func TestLoadModuleDefinitionDefaults(t *testing.T) {
	m, err := LoadModuleDefinitionFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"."}, m.Sources)
	assert.Equal(t, []string{"*.md"}, m.Documents)
	assert.Empty(t, m.Root)
}

func TestLoadModuleDefinition(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(`
root: ..
sources: [pkg, cmd]
documents: ["*.md", "docs/*.md"]
outdir: build/docs
`), 0660))

	m, err := LoadModuleDefinitionFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, &ModuleDefinition{
		Root:      "..",
		Sources:   []string{"pkg", "cmd"},
		Documents: []string{"*.md", "docs/*.md"},
		Outdir:    "build/docs",
	}, m)
}

func TestLoadModuleDefinitionInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("sources: {"), 0660))

	_, err := LoadModuleDefinitionFrom(dir)
	require.Error(t, err)
	assert.Equal(t, diagnostics.KindConfig, diagnostics.GetKind(err))
}

func TestLoadWorkspaceRoot(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "go.mod"))
	sub := filepath.Join(dir, "pkg", "lib")
	require.NoError(t, os.MkdirAll(sub, 0750))

	w, err := LoadWorkspaceFrom(sub, "")
	require.NoError(t, err)
	abs, _ := filepath.Abs(dir)
	assert.Equal(t, abs, w.Root)

	w, err = LoadWorkspaceFrom(sub, sub)
	require.NoError(t, err)
	assert.Equal(t, sub, w.Root)

	require.NoError(t, os.WriteFile(filepath.Join(sub, ConfigFile), []byte("root: ..\n"), 0660))
	w, err = LoadWorkspaceFrom(sub, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(sub, ".."), w.Root)
}

func TestLoadWorkspaceRootErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadWorkspaceFrom(dir, filepath.Join(dir, "missing"))
	require.Error(t, err)
	assert.Equal(t, diagnostics.KindConfig, diagnostics.GetKind(err))

	touch(t, filepath.Join(dir, "file"))
	_, err = LoadWorkspaceFrom(dir, filepath.Join(dir, "file"))
	require.Error(t, err)
	assert.Equal(t, diagnostics.KindConfig, diagnostics.GetKind(err))
}

func TestGoFiles(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{
		"lib.go",
		"lib_test.go",
		"internal/x/x.go",
		"vendor/dep/dep.go",
		"testdata/fixture.go",
		".git/hook.go",
		"_examples/ex.go",
		"README.md",
	} {
		touch(t, filepath.Join(dir, f))
	}

	w := &Workspace{Dir: dir, Root: dir, Module: &ModuleDefinition{Sources: []string{".", "internal"}}}
	files, err := w.GoFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "internal/x/x.go"),
		filepath.Join(dir, "lib.go"),
	}, files)
}

func TestMarkdownFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "README.md"))
	touch(t, filepath.Join(dir, "docs", "guide.md"))
	touch(t, filepath.Join(dir, "docs", "notes.txt"))

	w := &Workspace{Dir: dir, Module: &ModuleDefinition{Documents: []string{"*.md", "docs/*.md", "README.md"}}}
	files, err := w.MarkdownFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "README.md"),
		filepath.Join(dir, "docs", "guide.md"),
	}, files)
}

func TestRel(t *testing.T) {
	w := &Workspace{Dir: "/work"}
	assert.Equal(t, filepath.Join("pkg", "a.go"), w.Rel("/work/pkg/a.go"))
	assert.Equal(t, "b.go", w.Rel("/elsewhere/b.go"))
}
