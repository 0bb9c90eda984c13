package ast

import (
	"testing"

	"docimage/diagnostics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDocumentationComment(t *testing.T) {
	doc := FromDocumentationComment(`Foos the bar.

![Alt text][MyImage] and ![inline](x.png) and ![crab][] and ![shortcut].

[myimage]: data:image/png;base64,AAAA
`)

	require.NotNil(t, doc.Summary)
	assert.Equal(t, "Foos the bar.", string(doc.Summary.Text(doc.Source)))
	assert.Equal(t, map[string]string{"myimage": "data:image/png;base64,AAAA"}, doc.References)
	assert.Equal(t, []ImageRef{
		{Alt: "Alt text", Label: "MyImage", Offset: 15},
		{Alt: "crab", Label: "crab", Offset: 61},
		{Alt: "shortcut", Label: "shortcut", Offset: 75},
	}, doc.ImageRefs)
}

func TestDocText(t *testing.T) {
	assert.Equal(t, "Foo.\n\n[a]: data:x\n", DocText([]string{" Foo.", "", " [a]: data:x"}))
}

func TestParseMarkers(t *testing.T) {
	src := []byte("# Crate\n\n![Ferris][ferris]\n\n{{embed-image: \"ferris\", \"images/ferris.png\"}}\n\n" +
		"`{{embed-image: \"skip\", \"skip.png\"}}`\n")

	markers, err := ParseMarkers("README.md", src)
	require.NoError(t, err)
	require.Len(t, markers, 1)

	m := markers[0]
	assert.Equal(t, "ferris", m.Descriptor.Label)
	assert.Equal(t, "images/ferris.png", m.Descriptor.Path)
	assert.Equal(t, diagnostics.Position{File: "README.md", Line: 5, Column: 15}, m.Descriptor.Pos)
	assert.Equal(t, `{{embed-image: "ferris", "images/ferris.png"}}`, string(src[m.Span.Start:m.Span.End]))
}

func TestParseMarkersBadArguments(t *testing.T) {
	_, err := ParseMarkers("README.md", []byte("text {{embed-image: ferris}}\n"))
	require.Error(t, err)
	assert.Equal(t, diagnostics.KindParse, diagnostics.GetKind(err))
	assert.Contains(t, err.Error(), "README.md:1:")
}
