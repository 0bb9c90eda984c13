package gosource

import (
	"fmt"
	"os"

	"docimage/ast"
	"docimage/backends"
	"docimage/modules"
	"docimage/rewrite"

	"github.com/alecthomas/repr"
	"github.com/urfave/cli/v2"
)

type GoSourceBackend struct{}

func (GoSourceBackend) GenerateCommand() *cli.Command {
	return &cli.Command{
		Name:      "source",
		Usage:     "Embed images into the doc comments of Go source files",
		ArgsUsage: "[FILES...]",
		Flags:     backends.Flags(backends.OutputFlags...),
		Action: func(cCtx *cli.Context) error {
			return backends.Rewrite(cCtx, (*modules.Workspace).GoFiles, rewrite.Source)
		},
	}
}

// InspectBackend dumps the annotated declarations of a Go file.
type InspectBackend struct{}

func (InspectBackend) GenerateCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the embed directives of a Go file and the declarations they document",
		ArgsUsage: "FILE",
		Action: func(cCtx *cli.Context) error {
			if cCtx.NArg() != 1 {
				return fmt.Errorf("inspect takes exactly one file")
			}

			name := cCtx.Args().First()
			src, err := os.ReadFile(name)
			if err != nil {
				return err
			}

			f, err := ast.ParseFile(name, src)
			if err != nil {
				return err
			}

			repr.New(cCtx.App.Writer, repr.Indent("  ")).Println(f.Declarations)
			return nil
		},
	}
}

func init() {
	backends.RegisterBackend(GoSourceBackend{})
	backends.RegisterBackend(InspectBackend{})
}
