package ast

import (
	"bytes"
	"regexp"
	"strings"

	"docimage/diagnostics"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// DirectivePrefix starts an embed annotation inside a Go doc comment:
//
//	//docimage:embed "ferris", "images/ferris.png"
const DirectivePrefix = "//docimage:embed"

var (
	directiveLine = regexp.MustCompile(`^//[a-z0-9]+:[a-z0-9]`)
	generatedLine = regexp.MustCompile(`^// \[([^\]]+)\]: data:[^;,]+;base64,`)
)

// File is a parsed Go source file reduced to the declarations that carry
// embed directives, in source order.
type File struct {
	Name         string
	Source       []byte
	Declarations []*Declaration
}

func (f *File) Directives() int {
	n := 0
	for _, d := range f.Declarations {
		n += len(d.Directives)
	}
	return n
}

func isDirective(text string) bool {
	return strings.HasPrefix(text, DirectivePrefix) &&
		(len(text) == len(DirectivePrefix) || text[len(DirectivePrefix)] == ' ' || text[len(DirectivePrefix)] == '\t')
}

// ParseFile scans a Go source file for embed directives and resolves the
// declaration each directive documents.
func ParseFile(name string, src []byte) (*File, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())

	tree := parser.Parse(nil, src)
	root := tree.RootNode()

	var comments []*sitter.Node
	collectComments(root, &comments)

	f := &File{Name: name, Source: src}

	for _, group := range groupComments(src, comments) {
		decl, err := declarationFor(name, src, root, group)
		if err != nil {
			return nil, err
		}
		if decl != nil {
			f.Declarations = append(f.Declarations, decl)
		}
	}

	return f, nil
}

func collectComments(n *sitter.Node, into *[]*sitter.Node) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() == "comment" {
			*into = append(*into, child)
			continue
		}
		collectComments(child, into)
	}
}

// ownLine reports whether only whitespace precedes offset on its line.
func ownLine(src []byte, offset int) bool {
	lineStart := bytes.LastIndexByte(src[:offset], '\n') + 1
	return len(bytes.TrimSpace(src[lineStart:offset])) == 0
}

func groupComments(src []byte, comments []*sitter.Node) [][]*sitter.Node {
	var groups [][]*sitter.Node
	var current []*sitter.Node

	for _, c := range comments {
		start := int(c.StartByte())
		isLine := bytes.HasPrefix(src[start:], []byte("//"))
		joinable := isLine && ownLine(src, start)

		if len(current) > 0 && joinable {
			prev := current[len(current)-1]
			if c.StartPoint().Row == prev.EndPoint().Row+1 {
				current = append(current, c)
				continue
			}
		}

		if len(current) > 0 {
			groups = append(groups, current)
		}
		current = []*sitter.Node{c}
		if !joinable {
			// trailing and block comments never start a doc group
			groups = append(groups, current)
			current = nil
		}
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}

	return groups
}

func declarationFor(name string, src []byte, root *sitter.Node, group []*sitter.Node) (*Declaration, error) {
	decl := &Declaration{}

	first := int(group[0].StartByte())
	lineStart := bytes.LastIndexByte(src[:first], '\n') + 1
	decl.Group.Indent = string(src[lineStart:first])

	labels := map[string]bool{}

	for _, node := range group {
		text := strings.TrimRight(node.Content(src), " \t\r")
		c := Comment{Text: text, Span: SpanFromNode(node)}

		switch {
		case isDirective(text):
			c.Role = RoleDirective
			args := text[len(DirectivePrefix):]
			pos := Advance(PositionAt(name, src, c.Span.Start), DirectivePrefix)
			if strings.TrimSpace(args) == "" {
				return nil, diagnostics.New(diagnostics.KindParse, pos, "embed directive needs `\"label\", \"path\"` arguments")
			}
			d, err := ParseDescriptor(args, pos)
			if err != nil {
				return nil, err
			}
			labels[d.Label] = true
			decl.Directives = append(decl.Directives, Directive{Descriptor: d, Comment: c.Span})
		case directiveLine.MatchString(text):
			c.Role = RoleDirective
		}

		decl.Group.Comments = append(decl.Group.Comments, c)
	}

	if len(decl.Directives) == 0 {
		return nil, nil
	}

	at := decl.Directives[0].Descriptor.Pos

	if len(group) == 1 && !ownLine(src, first) {
		return nil, diagnostics.New(diagnostics.KindUnsupportedDeclaration, at,
			"embed directive must be part of a doc comment, not a trailing comment")
	}

	markGenerated(decl.Group.Comments, labels)

	for _, c := range decl.Group.Comments {
		if c.Role == RoleDoc {
			decl.Doc = append(decl.Doc, strings.TrimPrefix(c.Text, "//"))
		}
	}

	target := documentedNode(src, root, int(group[len(group)-1].EndByte()))
	if target == nil {
		return nil, diagnostics.New(diagnostics.KindUnsupportedDeclaration, at,
			"embed directive is not attached to a declaration")
	}

	decl.Node = target.Type()
	decl.Span = SpanFromNode(target)
	decl.Pos = PositionAt(name, src, decl.Span.Start)
	decl.Category, decl.Name = classify(target, src)

	if !decl.Category.Supported() {
		return nil, diagnostics.Errorf(diagnostics.KindUnsupportedDeclaration, decl.Pos,
			"cannot embed images in the documentation of a %s", strings.ReplaceAll(decl.Node, "_", " "))
	}
	if inFunctionBody(target) {
		decl.Category = CategoryUnsupported
		return nil, diagnostics.Errorf(diagnostics.KindUnsupportedDeclaration, decl.Pos,
			"cannot embed images in the documentation of a local %s", strings.ReplaceAll(decl.Node, "_", " "))
	}

	return decl, nil
}

// markGenerated flags fragment lines left by an earlier run for one of the
// group's own labels, together with the blank separator before each.
func markGenerated(comments []Comment, labels map[string]bool) {
	for i := range comments {
		m := generatedLine.FindStringSubmatch(comments[i].Text)
		if m == nil || !labels[m[1]] || comments[i].Role != RoleDoc {
			continue
		}
		comments[i].Role = RoleGenerated
		if i > 0 && comments[i-1].Role == RoleDoc && comments[i-1].IsBlank() {
			comments[i-1].Role = RoleGenerated
		}
	}
}

// documentedNode returns the node a comment group ending at end documents:
// the outermost named node starting on the very next line.
func documentedNode(src []byte, root *sitter.Node, end int) *sitter.Node {
	p := end
	newlines := 0
	for ; p < len(src); p++ {
		c := src[p]
		if c == '\n' {
			newlines++
			continue
		}
		if c != ' ' && c != '\t' && c != '\r' {
			break
		}
	}
	if p == len(src) || newlines != 1 {
		return nil
	}
	n := outermostNamedAt(root, p)
	if n == nil || n.Type() == "comment" {
		return nil
	}
	return n
}

func outermostNamedAt(n *sitter.Node, p int) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		start, end := int(c.StartByte()), int(c.EndByte())
		if start > p {
			break
		}
		if end <= p {
			continue
		}
		if start == p && c.IsNamed() {
			return c
		}
		return outermostNamedAt(c, p)
	}
	return nil
}

// inFunctionBody reports whether n is declared inside a function or
// function literal body, where no documentation is rendered.
func inFunctionBody(n *sitter.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() == "block" {
			return true
		}
	}
	return false
}

func fieldContent(n *sitter.Node, field string, src []byte) string {
	if c := n.ChildByFieldName(field); c != nil {
		return c.Content(src)
	}
	return ""
}

func firstNamedOf(n *sitter.Node, types ...string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		for _, t := range types {
			if c.Type() == t {
				return c
			}
		}
	}
	return nil
}

func countNamedOf(n *sitter.Node, types ...string) int {
	count := 0
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		for _, t := range types {
			if c.Type() == t {
				count++
			}
		}
	}
	return count
}

func classify(n *sitter.Node, src []byte) (Category, string) {
	switch n.Type() {
	case "package_clause":
		if id := firstNamedOf(n, "package_identifier"); id != nil {
			return CategoryPackage, id.Content(src)
		}
		return CategoryPackage, ""
	case "import_declaration":
		if spec := firstNamedOf(n, "import_spec"); spec != nil {
			return classify(spec, src)
		}
		return CategoryImport, ""
	case "import_spec":
		return CategoryImport, fieldContent(n, "path", src)
	case "const_declaration":
		if countNamedOf(n, "const_spec") == 1 {
			return classify(firstNamedOf(n, "const_spec"), src)
		}
		return CategoryConst, ""
	case "const_spec":
		return CategoryConst, fieldContent(n, "name", src)
	case "var_declaration":
		if countNamedOf(n, "var_spec") == 1 {
			return classify(firstNamedOf(n, "var_spec"), src)
		}
		return CategoryVar, ""
	case "var_spec":
		return CategoryVar, fieldContent(n, "name", src)
	case "type_declaration":
		if countNamedOf(n, "type_spec", "type_alias") == 1 {
			return classify(firstNamedOf(n, "type_spec", "type_alias"), src)
		}
		return CategoryType, ""
	case "type_alias":
		return CategoryAlias, fieldContent(n, "name", src)
	case "type_spec":
		name := fieldContent(n, "name", src)
		if t := n.ChildByFieldName("type"); t != nil {
			switch t.Type() {
			case "struct_type":
				return CategoryStruct, name
			case "interface_type":
				return CategoryInterface, name
			}
		}
		return CategoryType, name
	case "function_declaration":
		return CategoryFunc, fieldContent(n, "name", src)
	case "method_declaration":
		return CategoryMethod, fieldContent(n, "name", src)
	case "field_declaration":
		if name := fieldContent(n, "name", src); name != "" {
			return CategoryField, name
		}
		return CategoryField, fieldContent(n, "type", src)
	case "method_spec", "method_elem":
		return CategoryInterfaceMethod, fieldContent(n, "name", src)
	}
	return CategoryUnsupported, ""
}
