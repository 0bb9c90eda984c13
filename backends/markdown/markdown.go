package markdown

import (
	"fmt"

	"docimage/ast"
	"docimage/backends"
	"docimage/modules"
	"docimage/rewrite"

	"github.com/urfave/cli/v2"
)

type MarkdownBackend struct{}

func (MarkdownBackend) GenerateCommand() *cli.Command {
	return &cli.Command{
		Name:      "markdown",
		Usage:     "Expand {{embed-image: ...}} markers in Markdown documents",
		ArgsUsage: "[FILES...]",
		Flags:     backends.Flags(backends.OutputFlags...),
		Action: func(cCtx *cli.Context) error {
			return backends.Rewrite(cCtx, (*modules.Workspace).MarkdownFiles, rewrite.Markdown)
		},
	}
}

// FragmentBackend prints a single inline fragment, for documentation
// blocks assembled by other tools.
type FragmentBackend struct{}

func (FragmentBackend) GenerateCommand() *cli.Command {
	return &cli.Command{
		Name:      "fragment",
		Usage:     "Print the inline image fragment for LABEL and PATH",
		ArgsUsage: "LABEL PATH",
		Flags:     backends.Flags(),
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() != 2 {
				return fmt.Errorf("fragment takes a label and a path")
			}

			w, err := backends.LoadWorkspace(cCtx)
			if err != nil {
				return err
			}

			d := ast.Descriptor{Label: cCtx.Args().Get(0), Path: cCtx.Args().Get(1)}
			if d.Label == "" || d.Path == "" {
				return fmt.Errorf("fragment label and path must not be empty")
			}

			s, err := rewrite.InlineFragment(w.Root, d)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cCtx.App.Writer, s)
			return err
		},
	}
}

func init() {
	backends.RegisterBackend(MarkdownBackend{})
	backends.RegisterBackend(FragmentBackend{})
}
