package ast

import (
	"strings"

	"docimage/diagnostics"
)

// Category is the syntactic kind of a documented Go declaration.
type Category int

const (
	CategoryUnsupported Category = iota
	CategoryPackage
	CategoryImport
	CategoryConst
	CategoryVar
	CategoryStruct
	CategoryInterface
	CategoryAlias
	CategoryType
	CategoryFunc
	CategoryMethod
	CategoryField
	CategoryInterfaceMethod
)

var categoryNames = map[Category]string{
	CategoryUnsupported:     "unsupported",
	CategoryPackage:         "package",
	CategoryImport:          "import",
	CategoryConst:           "const",
	CategoryVar:             "var",
	CategoryStruct:          "struct",
	CategoryInterface:       "interface",
	CategoryAlias:           "type alias",
	CategoryType:            "type",
	CategoryFunc:            "func",
	CategoryMethod:          "method",
	CategoryField:           "field",
	CategoryInterfaceMethod: "interface method",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "unsupported"
}

// Supported reports whether doc comments of this category can carry
// embedded images.
func (c Category) Supported() bool {
	return c != CategoryUnsupported && c <= CategoryInterfaceMethod
}

type CommentRole int

const (
	// RoleDoc is documentation text, including blank "//" lines.
	RoleDoc CommentRole = iota
	// RoleDirective is a "//tool:verb" line, ours or anyone else's.
	RoleDirective
	// RoleGenerated is a fragment written by an earlier run, or the blank
	// separator line in front of it.
	RoleGenerated
)

// Comment is one "//" line of a comment group.
type Comment struct {
	Text string
	Role CommentRole
	Span Span
}

func (c Comment) IsBlank() bool {
	return strings.TrimSpace(strings.TrimPrefix(c.Text, "//")) == ""
}

// CommentGroup is a run of line comments on consecutive lines.
type CommentGroup struct {
	Comments []Comment

	// Indent is the whitespace in front of the first comment.
	Indent string
}

// Directive is one embed annotation found in a comment group.
type Directive struct {
	Descriptor Descriptor
	Comment    Span
}

// Declaration is a Go declaration whose doc comment carries at least one
// embed directive.
type Declaration struct {
	Category Category
	// Node is the tree-sitter node type, kept for diagnostics.
	Node string
	Name string
	Pos  diagnostics.Position
	Span Span

	// Doc holds the documentation text of the comment group, one entry per
	// line with the leading "//" removed. Embedding appends to it.
	Doc        []string
	Directives []Directive
	Group      CommentGroup
}

func (d *Declaration) String() string {
	if d.Name == "" {
		return d.Category.String()
	}
	return d.Category.String() + " " + d.Name
}
