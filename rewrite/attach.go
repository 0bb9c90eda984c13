package rewrite

import (
	"strings"

	"docimage/ast"
	"docimage/diagnostics"
)

// Attach appends f to the documentation of decl: an empty line, then the
// fragment. Nothing else about decl changes.
func Attach(decl *ast.Declaration, f Fragment) error {
	if !decl.Category.Supported() {
		return diagnostics.Errorf(diagnostics.KindUnsupportedDeclaration, decl.Pos,
			"unsupported item, cannot embed images in the documentation of a %s", strings.ReplaceAll(decl.Node, "_", " "))
	}

	decl.Doc = append(decl.Doc, "", f.String())
	return nil
}

// Embed resolves every directive of decl in source order and attaches the
// resulting fragments.
func Embed(root string, decl *ast.Declaration) error {
	for _, dir := range decl.Directives {
		f, err := NewFragment(root, dir.Descriptor)
		if err != nil {
			return err
		}
		if err := Attach(decl, f); err != nil {
			return err
		}
	}
	return nil
}
