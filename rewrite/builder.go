package rewrite

import (
	"strings"
)

// commentBuilder writes Go line comments at a fixed indentation.
type commentBuilder struct {
	Indent  string
	Newline string

	strings.Builder
}

// Add writes one comment line holding doc text; text keeps its own leading
// space, as in ast.Declaration.Doc.
func (b *commentBuilder) Add(text string) {
	b.WriteString(b.Indent)
	b.WriteString("//")
	b.WriteString(text)
	b.WriteString(b.Newline)
}

func (b *commentBuilder) AddAll(lines []string) {
	for _, l := range lines {
		b.Add(l)
	}
}
