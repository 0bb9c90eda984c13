package extension

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// MarkerOpen and MarkerClose delimit an inline image marker:
//
//	{{embed-image: "ferris", "images/ferris.png"}}
const (
	MarkerOpen  = "{{embed-image:"
	MarkerClose = "}}"
)

type ImageMarkerExtender struct{}

// Extend implements goldmark.Extender
func (self *ImageMarkerExtender) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(util.Prioritized(&ImageMarkerParser{}, 999)))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(&ImageMarkerRenderer{}, 999)))
}

var _ goldmark.Extender = &ImageMarkerExtender{}

type ImageMarkerParser struct {
}

// markerEnd returns the length of the marker at the start of line, or -1.
// String literals may contain "}}", so quotes are tracked.
func markerEnd(line []byte) int {
	if !bytes.HasPrefix(line, []byte(MarkerOpen)) {
		return -1
	}

	var quote byte
	for i := len(MarkerOpen); i < len(line); i++ {
		c := line[i]
		switch {
		case quote == '"' && c == '\\':
			i++
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '`':
			quote = c
		case bytes.HasPrefix(line[i:], []byte(MarkerClose)):
			return i + len(MarkerClose)
		}
	}

	return -1
}

// Parse implements parser.InlineParser
func (self *ImageMarkerParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, seg := block.PeekLine()

	end := markerEnd(line)
	if end < 0 {
		return nil
	}

	seg = seg.WithStop(seg.Start + end)

	n := &ImageMarkerNode{
		Args:    block.Value(text.NewSegment(seg.Start+len(MarkerOpen), seg.Stop-len(MarkerClose))),
		Segment: seg,
	}
	block.Advance(end)
	return n
}

// Trigger implements parser.InlineParser
func (self *ImageMarkerParser) Trigger() []byte {
	return []byte("{")
}

var _ parser.InlineParser = &ImageMarkerParser{}

var _ ast.Node = &ImageMarkerNode{}

// ImageMarkerNode is an unexpanded image marker. Segment covers the whole
// marker in the source, braces included.
type ImageMarkerNode struct {
	ast.BaseInline

	Args    []byte
	Segment text.Segment
}

// ArgsStart is the source offset of the first byte of Args.
func (n *ImageMarkerNode) ArgsStart() int {
	return n.Segment.Start + len(MarkerOpen)
}

// Dump implements ast.Node
func (n *ImageMarkerNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Args": string(n.Args),
	}, nil)
}

var ImageMarkerKind = ast.NewNodeKind("ImageMarker")

// Kind implements ast.Node
func (*ImageMarkerNode) Kind() ast.NodeKind {
	return ImageMarkerKind
}

// ImageMarkerRenderer writes markers back verbatim, so a document that was
// not expanded still shows what it asks for.
type ImageMarkerRenderer struct{}

// RegisterFuncs registers rendering functions from this renderer onto the
// provided registerer.
func (r *ImageMarkerRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ImageMarkerKind, r.Render)
}

func (r *ImageMarkerRenderer) Render(w util.BufWriter, src []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n, ok := node.(*ImageMarkerNode)
	if !ok {
		return ast.WalkStop, fmt.Errorf("unexpected node %T, expected *ImageMarkerNode", node)
	}

	if entering {
		w.WriteString(`<code class="image-marker">`)
		w.Write(util.EscapeHTML(n.Segment.Value(src)))
		w.WriteString(`</code>`)
	}

	return ast.WalkContinue, nil
}
