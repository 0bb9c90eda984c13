package ast

import (
	"regexp"
	"strings"

	"docimage/ast/extension"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var gm = goldmark.New(
	goldmark.WithExtensions(
		&extension.ImageMarkerExtender{},
	),
	goldmark.WithParser(
		goldmark.DefaultParser(),
	),
)

// ImageRef is a reference-style image use, "![alt][label]", in prose.
type ImageRef struct {
	Alt   string
	Label string

	// Offset is the byte offset of "![" in the parsed source.
	Offset int
}

// ItemDocumentation is documentation text parsed as Markdown.
type ItemDocumentation struct {
	Summary    ast.Node
	Discussion []ast.Node

	// References maps normalized link reference labels to destinations.
	References map[string]string
	ImageRefs  []ImageRef
	Markers    []*extension.ImageMarkerNode

	Document ast.Node
	Source   []byte
}

// NormalizeLabel folds a reference label the way Markdown matches them.
func NormalizeLabel(label string) string {
	return util.ToLinkReference([]byte(label))
}

var imageRef = regexp.MustCompile(`!\[([^\]]*)\](\[([^\]]*)\]|\()?`)

func imageRefsIn(n ast.Node, source []byte) []ImageRef {
	var refs []ImageRef
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := seg.Value(source)
		for _, m := range imageRef.FindAllSubmatchIndex(line, -1) {
			ref := ImageRef{Alt: string(line[m[2]:m[3]]), Offset: seg.Start + m[0]}
			switch {
			case m[4] >= 0 && line[m[4]] == '(':
				continue
			case m[6] >= 0 && m[7] > m[6]:
				ref.Label = string(line[m[6]:m[7]])
			default:
				ref.Label = ref.Alt
			}
			refs = append(refs, ref)
		}
	}
	return refs
}

// FromDocumentationComment parses documentation text. Go doc lines are
// joined by the caller with their "//" stripped.
func FromDocumentationComment(comment string) *ItemDocumentation {
	source := []byte(comment)

	pc := parser.NewContext()
	document := gm.Parser().Parse(text.NewReader(source), parser.WithContext(pc))

	doc := ItemDocumentation{
		References: map[string]string{},
		Document:   document,
		Source:     source,
	}

	for _, ref := range pc.References() {
		doc.References[NormalizeLabel(string(ref.Label()))] = string(ref.Destination())
	}

	for i := document.FirstChild(); i != nil; i = i.NextSibling() {
		if doc.Summary == nil && i.Kind() == ast.KindParagraph {
			doc.Summary = i
		} else {
			doc.Discussion = append(doc.Discussion, i)
		}
	}

	_ = ast.Walk(document, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *extension.ImageMarkerNode:
			doc.Markers = append(doc.Markers, n)
		case *ast.Paragraph, *ast.Heading, *ast.TextBlock:
			doc.ImageRefs = append(doc.ImageRefs, imageRefsIn(n, source)...)
		}
		return ast.WalkContinue, nil
	})

	return &doc
}

// DocText joins Go doc lines into Markdown text, dropping the single space
// gofmt puts after "//".
func DocText(lines []string) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(strings.TrimPrefix(l, " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Marker is an image marker found in a Markdown document.
type Marker struct {
	Descriptor Descriptor
	Span       Span
}

// ParseMarkers finds every image marker of a Markdown document outside of
// code spans and code blocks, in document order.
func ParseMarkers(name string, src []byte) ([]Marker, error) {
	doc := FromDocumentationComment(string(src))

	var markers []Marker
	for _, m := range doc.Markers {
		d, err := ParseDescriptor(string(m.Args), PositionAt(name, src, m.ArgsStart()))
		if err != nil {
			return nil, err
		}
		markers = append(markers, Marker{
			Descriptor: d,
			Span:       Span{m.Segment.Start, m.Segment.Stop},
		})
	}

	return markers, nil
}
