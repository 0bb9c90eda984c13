package checking

import (
	"fmt"
	"os"
	"path/filepath"

	"docimage/ast"
	"docimage/backends"
	"docimage/logging"

	"github.com/urfave/cli/v2"
)

// Check checks one Go or Markdown file, chosen by extension.
func Check(name string, src []byte) ([]Finding, error) {
	if filepath.Ext(name) == ".go" {
		f, err := ast.ParseFile(name, src)
		if err != nil {
			return nil, err
		}
		return CheckFile(f), nil
	}
	return CheckMarkdown(name, src)
}

var Command = &cli.Command{
	Name:      "check",
	Usage:     "Check that every referenced image has a definition or an embed directive",
	ArgsUsage: "[FILES...]",
	Flags:     backends.Flags(),
	Action: func(cCtx *cli.Context) error {
		files := cCtx.Args().Slice()
		if len(files) == 0 {
			w, err := backends.LoadWorkspace(cCtx)
			if err != nil {
				return err
			}
			gofiles, err := w.GoFiles()
			if err != nil {
				return err
			}
			docs, err := w.MarkdownFiles()
			if err != nil {
				return err
			}
			files = append(gofiles, docs...)
		}

		var findings []Finding
		for _, file := range files {
			src, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}

			found, err := Check(file, src)
			if err != nil {
				return err
			}
			findings = append(findings, found...)
		}

		for _, f := range findings {
			fmt.Fprintln(cCtx.App.Writer, f)
		}

		errs := Errors(findings)
		logging.Info("checked", "files", len(files), "errors", errs, "warnings", len(findings)-errs)
		if errs > 0 {
			return fmt.Errorf("%d image label problem(s)", errs)
		}
		return nil
	},
}
