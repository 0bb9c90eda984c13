package checking

import (
	"docimage/ast"
	"docimage/diagnostics"
)

type Origin int

const (
	// OriginDirective labels come from an embed directive or marker and get
	// their definition when the file is rewritten.
	OriginDirective Origin = iota
	// OriginReference labels are already defined by a link reference
	// definition in the text.
	OriginReference
)

// Definition is one known image label.
type Definition struct {
	Label  string
	Origin Origin
	Pos    diagnostics.Position

	used bool
}

// Environment is a scope of labels. Lookups fall back to Parent.
type Environment struct {
	Items map[string]*Definition

	Parent *Environment
}

func NewEnvironment(parent *Environment) *Environment {
	return &Environment{map[string]*Definition{}, parent}
}

func (e *Environment) Search(label string) (*Definition, bool) {
	if v, ok := e.Items[ast.NormalizeLabel(label)]; ok {
		return v, true
	}
	if e.Parent == nil {
		return nil, false
	}
	return e.Parent.Search(label)
}

// Define adds def to e, returning the definition it collides with anywhere
// in the scope chain.
func (e *Environment) Define(def *Definition) (*Definition, bool) {
	if prev, ok := e.Search(def.Label); ok {
		return prev, false
	}
	e.Items[ast.NormalizeLabel(def.Label)] = def
	return def, true
}
