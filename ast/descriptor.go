package ast

import (
	"errors"
	"strings"

	"docimage/diagnostics"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Descriptor names one image to embed: the reference label used in the
// documentation prose and the image path relative to the project root.
type Descriptor struct {
	Label string
	Path  string

	Pos diagnostics.Position
}

type descriptorGrammar struct {
	Label string `parser:"@String \",\""`
	Path  string `parser:"@String"`
}

var descriptorLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(?:\\.|[^"\\\n])*"|` + "`[^`]*`"},
	{Name: "Punct", Pattern: `,`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

var descriptorParser = participle.MustBuild[descriptorGrammar](
	participle.Lexer(descriptorLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
)

// ParseDescriptor parses the argument list of an annotation, which must be
// exactly two string literals separated by a comma. pos is the position
// of the first byte of args and anchors any diagnostic.
func ParseDescriptor(args string, pos diagnostics.Position) (Descriptor, error) {
	parsed, err := descriptorParser.ParseString(pos.File, args)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			off := perr.Position().Offset
			if off > len(args) || off < 0 {
				off = len(args)
			}
			return Descriptor{}, diagnostics.Errorf(diagnostics.KindParse, Advance(pos, args[:off]),
				"expected `\"label\", \"path\"`: %s", perr.Message())
		}
		return Descriptor{}, diagnostics.Wrap(err, diagnostics.KindParse, pos, "expected `\"label\", \"path\"`")
	}

	switch {
	case parsed.Label == "":
		return Descriptor{}, diagnostics.New(diagnostics.KindParse, pos, "image label must not be empty")
	case parsed.Path == "":
		return Descriptor{}, diagnostics.New(diagnostics.KindParse, pos, "image path must not be empty")
	case strings.ContainsAny(parsed.Label, "\r\n"), strings.ContainsAny(parsed.Path, "\r\n"):
		return Descriptor{}, diagnostics.New(diagnostics.KindParse, pos, "image label and path must fit on one line")
	}

	return Descriptor{Label: parsed.Label, Path: parsed.Path, Pos: pos}, nil
}
