package ast

import (
	"bytes"

	"docimage/diagnostics"

	"github.com/rivo/uniseg"
	sitter "github.com/smacker/go-tree-sitter"
)

// Span is a byte range of a documentation source.
type Span struct {
	Start, End int
}

func SpanFromNode(n *sitter.Node) Span {
	return Span{int(n.StartByte()), int(n.EndByte())}
}

func (s Span) Len() int {
	return s.End - s.Start
}

func graphemes(b []byte) int {
	n := 0
	gr := uniseg.NewGraphemes(string(b))
	for gr.Next() {
		n++
	}
	return n
}

// PositionAt converts a byte offset into a line/column position. Columns
// count grapheme clusters so they line up with what an editor shows.
func PositionAt(file string, src []byte, offset int) diagnostics.Position {
	if offset > len(src) {
		offset = len(src)
	}
	lineStart := bytes.LastIndexByte(src[:offset], '\n') + 1
	return diagnostics.Position{
		File:   file,
		Line:   bytes.Count(src[:offset], []byte{'\n'}) + 1,
		Column: graphemes(src[lineStart:offset]) + 1,
	}
}

// Advance moves pos forward over s, which must not span lines.
func Advance(pos diagnostics.Position, s string) diagnostics.Position {
	if pos.IsValid() {
		pos.Column += graphemes([]byte(s))
	}
	return pos
}
