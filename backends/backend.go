package backends

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"docimage/logging"
	"docimage/modules"

	"github.com/urfave/cli/v2"
)

type Backend interface {
	GenerateCommand() *cli.Command
}

var StandardFlags = []cli.Flag{
	&cli.StringFlag{
		Name:        "workspace",
		Usage:       "The directory to load a workspace from",
		Value:       ".",
		DefaultText: ".",
		Aliases:     []string{"w"},
	},
	&cli.StringFlag{
		Name:    "root",
		Usage:   "The project root image paths are relative to",
		EnvVars: []string{modules.RootEnv},
	},
}

var OutputFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "outdir",
		Usage:   "The directory to write rewritten files to, mirroring the workspace layout",
		Aliases: []string{"o"},
	},
	&cli.BoolFlag{
		Name:  "write",
		Usage: "Rewrite files in place instead of printing them",
	},
}

// Flags returns StandardFlags followed by extra.
func Flags(extra ...cli.Flag) []cli.Flag {
	flags := make([]cli.Flag, 0, len(StandardFlags)+len(extra))
	flags = append(flags, StandardFlags...)
	return append(flags, extra...)
}

var Backends = []Backend{}

func RegisterBackend(b Backend) {
	Backends = append(Backends, b)
}

func LoadWorkspace(cCtx *cli.Context) (*modules.Workspace, error) {
	return modules.LoadWorkspaceFrom(cCtx.String("workspace"), cCtx.String("root"))
}

// Output is one rewritten file waiting to be written.
type Output struct {
	File        string
	Source      []byte
	Result      []byte
	Annotations int
}

// Emit writes every output according to the output flags. Nothing is
// written until every file has been rewritten, so a failing annotation
// never leaves a half-processed tree behind.
func Emit(cCtx *cli.Context, w *modules.Workspace, outputs []Output) error {
	write := cCtx.Bool("write")
	outdir := cCtx.String("outdir")
	if outdir == "" {
		outdir = w.Module.Outdir
	}
	if write && cCtx.IsSet("outdir") {
		return fmt.Errorf("--write and --outdir are mutually exclusive")
	}

	for _, out := range outputs {
		switch {
		case write:
			if bytes.Equal(out.Source, out.Result) {
				continue
			}
			info, err := os.Stat(out.File)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out.File, out.Result, info.Mode().Perm()); err != nil {
				return err
			}
			logging.Rewritten(out.File, out.File, out.Annotations)
		case outdir != "":
			dest := filepath.Join(outdir, w.Rel(out.File))
			if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
				return err
			}
			if err := os.WriteFile(dest, out.Result, 0660); err != nil {
				return err
			}
			logging.Rewritten(out.File, dest, out.Annotations)
		default:
			if len(outputs) > 1 {
				if _, err := fmt.Fprintln(cCtx.App.Writer, fileHeader(w.Rel(out.File))); err != nil {
					return err
				}
			}
			if _, err := cCtx.App.Writer.Write(out.Result); err != nil {
				return err
			}
		}
	}

	return nil
}

// fileHeader names a file in the output stream, as a comment in the
// file's own syntax.
func fileHeader(name string) string {
	name = filepath.ToSlash(name)
	if filepath.Ext(name) == ".go" {
		return "// file: " + name
	}
	return "<!-- file: " + name + " -->"
}

// Rewrite applies fn to each file and emits the results. Without explicit
// files the workspace's own are used.
func Rewrite(cCtx *cli.Context, files func(*modules.Workspace) ([]string, error), fn func(root, name string, src []byte) ([]byte, int, error)) error {
	w, err := LoadWorkspace(cCtx)
	if err != nil {
		return err
	}

	paths := cCtx.Args().Slice()
	if len(paths) == 0 {
		paths, err = files(w)
		if err != nil {
			return err
		}
	}

	logging.Debug("rewriting", "root", w.Root, "files", len(paths))

	var outputs []Output
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		result, n, err := fn(w.Root, path, src)
		if err != nil {
			return err
		}

		outputs = append(outputs, Output{File: path, Source: src, Result: result, Annotations: n})
	}

	return Emit(cCtx, w, outputs)
}
