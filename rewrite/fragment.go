// Package rewrite splices embedded images into documentation.
//
// A fragment is a Markdown link reference definition whose destination is
// the image itself, as a data URI:
//
//	 [ferris]: data:image/png;base64,iVBORw0KGgo...
//
// Prose refers to it as ![alt text][ferris]. Reference definitions are only
// recognized when separated from the preceding paragraph by a blank line,
// so every fragment is emitted after one.
package rewrite

import (
	"docimage/ast"
	"docimage/logging"
	"docimage/resources"
)

// Fragment is the documentation line resolving one image label.
type Fragment struct {
	Label    string
	Resource resources.Resource
}

func (f Fragment) String() string {
	return " [" + f.Label + "]: " + f.Resource.DataURI()
}

// NewFragment encodes the image d describes.
func NewFragment(root string, d ast.Descriptor) (Fragment, error) {
	res, err := resources.Encode(root, d)
	if err != nil {
		return Fragment{}, err
	}

	logging.Embedded(d.Pos.File, d.Label, d.Path, res.MimeType, res.Size)

	return Fragment{Label: d.Label, Resource: res}, nil
}

// InlineFragment returns the fragment for d as standalone text, led by a
// blank line, for concatenation into a documentation block that collects
// several image definitions.
func InlineFragment(root string, d ast.Descriptor) (string, error) {
	f, err := NewFragment(root, d)
	if err != nil {
		return "", err
	}
	return "\n \n " + f.String(), nil
}
