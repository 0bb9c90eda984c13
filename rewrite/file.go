package rewrite

import (
	"bytes"
	"sort"

	"docimage/ast"
)

type edit struct {
	span ast.Span
	text string
}

func lineStart(src []byte, off int) int {
	return bytes.LastIndexByte(src[:off], '\n') + 1
}

func lineEnd(src []byte, off int) int {
	if i := bytes.IndexByte(src[off:], '\n'); i >= 0 {
		return off + i + 1
	}
	return len(src)
}

func newlineOf(src []byte) string {
	if bytes.Contains(src, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}

// apply splices edits into src. Edits must not overlap; an insertion and a
// removal starting at the same offset apply in the order given.
func apply(src []byte, edits []edit) []byte {
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].span.Start < edits[j].span.Start
	})

	var out bytes.Buffer
	last := 0
	for _, e := range edits {
		out.Write(src[last:e.span.Start])
		out.WriteString(e.text)
		last = e.span.End
	}
	out.Write(src[last:])

	return out.Bytes()
}

// declarationEdits turns the lines Embed appended to decl.Doc back into
// source text, laid out the way gofmt lays out a doc comment: the new lines
// go after the last line of doc text, a comment without doc text does not
// start with a blank line, and one blank line separates the text from
// trailing directives. Fragments written by an earlier run are dropped.
func declarationEdits(src []byte, decl *ast.Declaration, appended []string) []edit {
	comments := decl.Group.Comments

	at := lineStart(src, comments[0].Span.Start)
	next := 0
	for i, c := range comments {
		if c.Role == ast.RoleDoc && !c.IsBlank() {
			at = lineEnd(src, c.Span.End)
			next = i + 1
		}
	}

	lines := appended
	if next == 0 && len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	if directiveFollows(comments[next:]) {
		lines = append(lines[:len(lines):len(lines)], "")
	}

	b := commentBuilder{Indent: decl.Group.Indent, Newline: newlineOf(src)}
	b.AddAll(lines)

	edits := []edit{{ast.Span{Start: at, End: at}, b.String()}}
	for _, c := range comments {
		if c.Role == ast.RoleGenerated {
			edits = append(edits, edit{ast.Span{Start: lineStart(src, c.Span.Start), End: lineEnd(src, c.Span.End)}, ""})
		}
	}

	return edits
}

// directiveFollows reports whether the first comment kept from comments
// is a directive.
func directiveFollows(comments []ast.Comment) bool {
	for _, c := range comments {
		if c.Role != ast.RoleGenerated {
			return c.Role == ast.RoleDirective
		}
	}
	return false
}

// File embeds the images of every annotated declaration of f and returns
// the rewritten source. Bytes outside the touched doc comments are kept
// as they are. Nothing is returned unless every annotation resolves.
func File(root string, f *ast.File) ([]byte, error) {
	var edits []edit

	for _, decl := range f.Declarations {
		before := len(decl.Doc)
		if err := Embed(root, decl); err != nil {
			return nil, err
		}
		edits = append(edits, declarationEdits(f.Source, decl, decl.Doc[before:])...)
	}

	return apply(f.Source, edits), nil
}

// Source parses and rewrites one Go file.
func Source(root, name string, src []byte) ([]byte, int, error) {
	f, err := ast.ParseFile(name, src)
	if err != nil {
		return nil, 0, err
	}

	out, err := File(root, f)
	if err != nil {
		return nil, 0, err
	}

	return out, f.Directives(), nil
}
