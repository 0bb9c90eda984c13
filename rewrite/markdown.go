package rewrite

import (
	"bytes"

	"docimage/ast"
)

// Markdown replaces every image marker of a Markdown document with its
// inline fragment and reports how many markers it expanded. Markers in
// code spans and code blocks are left alone. A marker followed by more
// text on its line is removed and its fragment goes to the end of that
// line, since a reference definition has to stand on its own line.
func Markdown(root, name string, src []byte) ([]byte, int, error) {
	markers, err := ast.ParseMarkers(name, src)
	if err != nil {
		return nil, 0, err
	}

	edits := make([]edit, 0, len(markers))
	for _, m := range markers {
		text, err := InlineFragment(root, m.Descriptor)
		if err != nil {
			return nil, 0, err
		}

		eol := lineEnd(src, m.Span.End)
		if eol > m.Span.End && src[eol-1] == '\n' {
			eol--
		}
		if eol > m.Span.End && src[eol-1] == '\r' {
			eol--
		}

		if len(bytes.TrimSpace(src[m.Span.End:eol])) == 0 {
			edits = append(edits, edit{m.Span, text})
			continue
		}
		edits = append(edits,
			edit{m.Span, ""},
			edit{ast.Span{Start: eol, End: eol}, text},
		)
	}

	return apply(src, edits), len(markers), nil
}
