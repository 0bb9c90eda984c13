package modules

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"docimage/diagnostics"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFile = "docimage.yaml"
	RootEnv    = "DOCIMAGE_ROOT"
)

type Workspace struct {
	Dir    string
	Root   string
	Module *ModuleDefinition
}

// ModuleDefinition is the optional docimage.yaml of a workspace.
type ModuleDefinition struct {
	// Root is the directory image paths are relative to.
	Root string `yaml:"root"`
	// Sources are directories scanned recursively for Go files.
	Sources []string `yaml:"sources"`
	// Documents are glob patterns of Markdown files.
	Documents []string `yaml:"documents"`
	Outdir    string   `yaml:"outdir"`
}

func defaultModuleDefinition() *ModuleDefinition {
	return &ModuleDefinition{Sources: []string{"."}, Documents: []string{"*.md"}}
}

func LoadModuleDefinitionFrom(dir string) (*ModuleDefinition, error) {
	file := filepath.Join(dir, ConfigFile)
	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return defaultModuleDefinition(), nil
	}
	if err != nil {
		return nil, diagnostics.Wrap(err, diagnostics.KindConfig, diagnostics.Position{File: file}, "failed to load "+ConfigFile)
	}

	m := defaultModuleDefinition()

	err = yaml.Unmarshal(data, m)
	if err != nil {
		return nil, diagnostics.Wrap(err, diagnostics.KindConfig, diagnostics.Position{File: file}, "failed to parse "+ConfigFile)
	}

	return m, nil
}

// FindRoot returns the closest directory at or above dir holding a go.mod.
func FindRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for d := abs; ; d = filepath.Dir(d) {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil {
			return d, nil
		}
		if filepath.Dir(d) == d {
			return "", fmt.Errorf("no go.mod found above %s", abs)
		}
	}
}

// LoadWorkspaceFrom loads the workspace in dir. The project root is root
// when set, else the root of docimage.yaml, else the enclosing Go module.
// Without any of them there is nothing to resolve image paths against.
func LoadWorkspaceFrom(dir string, root string) (*Workspace, error) {
	mod, err := LoadModuleDefinitionFrom(dir)
	if err != nil {
		return nil, err
	}

	switch {
	case root != "":
	case mod.Root != "":
		root = mod.Root
		if !filepath.IsAbs(root) {
			root = filepath.Join(dir, root)
		}
	default:
		root, err = FindRoot(dir)
		if err != nil {
			return nil, diagnostics.Wrap(err, diagnostics.KindConfig, diagnostics.Position{},
				"project root not set, use --root or "+RootEnv)
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, diagnostics.Wrap(err, diagnostics.KindConfig, diagnostics.Position{}, "invalid project root")
	}
	if !info.IsDir() {
		return nil, diagnostics.Errorf(diagnostics.KindConfig, diagnostics.Position{}, "project root %s is not a directory", root)
	}

	return &Workspace{Dir: dir, Root: root, Module: mod}, nil
}

func skipDir(name string) bool {
	return name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// GoFiles lists the non-test Go files below the configured sources.
func (w *Workspace) GoFiles() ([]string, error) {
	var files []string

	for _, src := range w.Module.Sources {
		base := filepath.Join(w.Dir, src)
		err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != base && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".go" && !strings.HasSuffix(path, "_test.go") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan sources at %s: %w", base, err)
		}
	}

	return dedupe(files), nil
}

// MarkdownFiles expands the configured document patterns.
func (w *Workspace) MarkdownFiles() ([]string, error) {
	var files []string

	for _, pattern := range w.Module.Documents {
		matches, err := filepath.Glob(filepath.Join(w.Dir, pattern))
		if err != nil {
			return nil, diagnostics.Wrap(err, diagnostics.KindConfig, diagnostics.Position{}, "bad document pattern "+pattern)
		}
		files = append(files, matches...)
	}

	return dedupe(files), nil
}

// Rel returns path relative to the workspace, for mirroring into an
// output directory. Paths outside the workspace keep their base name.
func (w *Workspace) Rel(path string) string {
	dir, err := filepath.Abs(w.Dir)
	if err != nil {
		return filepath.Base(path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Base(path)
	}
	rel, err := filepath.Rel(dir, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(path)
	}
	return rel
}

func dedupe(files []string) []string {
	sort.Strings(files)
	out := files[:0]
	for i, f := range files {
		if i == 0 || f != files[i-1] {
			out = append(out, f)
		}
	}
	return out
}
