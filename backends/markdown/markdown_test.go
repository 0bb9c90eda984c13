package markdown

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const readme = "# Crate\n\n![Ferris][ferris]\n\n{{embed-image: \"ferris\", \"images/ferris.png\"}}\n\n" +
	"`{{embed-image: \"literal\", \"x.png\"}}`\n"

func project(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for rel, data := range map[string]string{
		"go.mod":            "module lib\n",
		"README.md":         readme,
		"images/ferris.png": "abc",
	} {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
		require.NoError(t, os.WriteFile(path, []byte(data), 0660))
	}
	return dir
}

func run(args ...string) (string, error) {
	var out bytes.Buffer
	app := &cli.App{
		Name:   "docimage",
		Writer: &out,
		Commands: []*cli.Command{
			MarkdownBackend{}.GenerateCommand(),
			FragmentBackend{}.GenerateCommand(),
		},
	}
	err := app.Run(append([]string{"docimage"}, args...))
	return out.String(), err
}

func TestMarkdown(t *testing.T) {
	dir := project(t)

	out, err := run("markdown", "-w", dir)
	require.NoError(t, err)
	assert.Equal(t, "# Crate\n\n![Ferris][ferris]\n\n\n \n  [ferris]: data:image/png;base64,YWJj\n\n"+
		"`{{embed-image: \"literal\", \"x.png\"}}`\n", out)
}

func TestMarkdownSeveralFiles(t *testing.T) {
	dir := project(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "NOTES.md"), []byte("Notes.\n"), 0660))

	out, err := run("markdown", "-w", dir, filepath.Join(dir, "NOTES.md"), filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!-- file: NOTES.md -->\nNotes.\n<!-- file: README.md -->\n# Crate\n"), out)
}

func TestFragment(t *testing.T) {
	dir := project(t)

	out, err := run("fragment", "-w", dir, "ferris", "images/ferris.png")
	require.NoError(t, err)
	assert.Equal(t, "\n \n  [ferris]: data:image/png;base64,YWJj\n", out)

	_, err = run("fragment", "-w", dir, "ferris")
	assert.Error(t, err)

	_, err = run("fragment", "-w", dir, "ferris", "images/ferris.bin")
	assert.Error(t, err)
}
