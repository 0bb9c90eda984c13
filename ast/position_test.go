package ast

import (
	"testing"

	"docimage/diagnostics"

	"github.com/stretchr/testify/assert"
)

func TestPositionAt(t *testing.T) {
	src := []byte("line one\n\tüber // x\n")

	assert.Equal(t, diagnostics.Position{File: "f.go", Line: 1, Column: 1}, PositionAt("f.go", src, 0))
	assert.Equal(t, diagnostics.Position{File: "f.go", Line: 2, Column: 1}, PositionAt("f.go", src, 9))
	// "\tüber " is six clusters but seven bytes
	assert.Equal(t, diagnostics.Position{File: "f.go", Line: 2, Column: 7}, PositionAt("f.go", src, 16))
}

func TestAdvance(t *testing.T) {
	pos := diagnostics.Position{Line: 3, Column: 2}
	assert.Equal(t, 5, Advance(pos, "éab").Column)
	assert.Equal(t, diagnostics.Position{}, Advance(diagnostics.Position{}, "abc"))
}
