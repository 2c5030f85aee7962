// Package buffer provides the rectangular cell grid that logical and
// interpolated frames are made of.
package buffer

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/lixenwraith/morph/terminal"
)

// DefaultFill is a blank cell with terminal-default colors
var DefaultFill = terminal.Cell{Glyph: " "}

// Buffer is a fixed-size grid of cells, row-major.
// Buffers have no identity beyond contents.
type Buffer struct {
	cells  []terminal.Cell
	width  int
	height int
	fill   terminal.Cell
}

// New creates a buffer filled with DefaultFill
func New(width, height int) *Buffer {
	return NewFilled(width, height, DefaultFill)
}

// NewFilled creates a buffer filled with the given background cell
func NewFilled(width, height int, fill terminal.Cell) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := &Buffer{
		cells:  make([]terminal.Cell, width*height),
		width:  width,
		height: height,
		fill:   fill,
	}
	b.Clear()
	return b
}

// Width returns the buffer width
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height
func (b *Buffer) Height() int { return b.height }

// Fill returns the background fill cell
func (b *Buffer) Fill() terminal.Cell { return b.fill }

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Get returns the cell at (x, y)
func (b *Buffer) Get(x, y int) (terminal.Cell, bool) {
	if !b.inBounds(x, y) {
		return terminal.Cell{}, false
	}
	return b.cells[y*b.width+x], true
}

// Set writes the cell at (x, y), reporting whether it was in bounds
func (b *Buffer) Set(x, y int, c terminal.Cell) bool {
	if !b.inBounds(x, y) {
		return false
	}
	b.cells[y*b.width+x] = c
	return true
}

// Clear resets all cells to the fill using exponential copy
func (b *Buffer) Clear() {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = b.fill
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// FillWith replaces the fill cell and resets all contents to it
func (b *Buffer) FillWith(fill terminal.Cell) {
	b.fill = fill
	b.Clear()
}

// SetText writes a string starting at (x, y), one user-perceived character
// per cell, and returns the number of cells written. Grapheme clusters wider
// than one column cannot occupy a unit cell and are written as spaces.
func (b *Buffer) SetText(x, y int, s string, fg, bg terminal.Color, attrs terminal.Attr) int {
	if y < 0 || y >= b.height {
		return 0
	}

	written := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		if x >= b.width {
			break
		}
		if x >= 0 {
			glyph := g.Str()
			if runewidth.StringWidth(glyph) > 1 {
				glyph = " "
			}
			b.cells[y*b.width+x] = terminal.Cell{Glyph: glyph, Fg: fg, Bg: bg, Attrs: attrs}
			written++
		}
		x++
	}
	return written
}

// Equal reports componentwise equality of dimensions and contents.
// Fill cells are contents like any other; the fill setting itself is not
// compared.
func (b *Buffer) Equal(o *Buffer) bool {
	if o == nil || b.width != o.width || b.height != o.height {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{
		cells:  make([]terminal.Cell, len(b.cells)),
		width:  b.width,
		height: b.height,
		fill:   b.fill,
	}
	copy(c.cells, b.cells)
	return c
}

// CopyInto overwrites dst contents with b's. Dimensions must match.
func (b *Buffer) CopyInto(dst *Buffer) bool {
	if dst == nil || dst.width != b.width || dst.height != b.height {
		return false
	}
	copy(dst.cells, b.cells)
	return true
}
