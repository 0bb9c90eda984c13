// Package resources turns image files into inline data for documentation.
package resources

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"docimage/ast"
	"docimage/diagnostics"
)

var mimeTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"bmp":  "image/bmp",
	"svg":  "image/svg+xml",
	"gif":  "image/gif",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"webp": "image/webp",
	"ico":  "image/vnd.microsoft.icon",
}

// Resource is an encoded image.
type Resource struct {
	MimeType string
	Payload  string
	Size     int
}

// DataURI renders the resource as a "data:" URI.
func (r Resource) DataURI() string {
	return "data:" + r.MimeType + ";base64," + r.Payload
}

// MimeType derives the content type of an image from its extension. There
// is no fallback for unknown extensions.
func MimeType(path string) (string, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", diagnostics.Errorf(diagnostics.KindUnsupportedExtension, diagnostics.Position{},
			"no extension for file %s, unable to determine MIME type", path)
	}
	mime, ok := mimeTypes[strings.ToLower(ext)]
	if !ok {
		return "", diagnostics.Errorf(diagnostics.KindUnsupportedExtension, diagnostics.Position{},
			"unrecognized image extension %q, unable to infer MIME type", ext)
	}
	return mime, nil
}

// Encode reads the image d points at, relative to root, and encodes it.
// Every call reads the file again.
func Encode(root string, d ast.Descriptor) (Resource, error) {
	path := d.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, filepath.FromSlash(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Resource{}, diagnostics.Wrap(err, diagnostics.KindFile, d.Pos, "failed to load image")
	}

	mime, err := MimeType(d.Path)
	if err != nil {
		return Resource{}, diagnostics.At(err, d.Pos)
	}

	return Resource{
		MimeType: mime,
		Payload:  base64.StdEncoding.EncodeToString(data),
		Size:     len(data),
	}, nil
}
