// Package tcellterm adapts a tcell.Screen to the morph cell backend, so the
// morph engine drops into applications already built on tcell.
package tcellterm

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/morph/terminal"
)

// Screen wraps an initialized tcell.Screen
type Screen struct {
	s       tcell.Screen
	cursorX int
	cursorY int
	visible bool
}

// New wraps screen. The caller owns the screen lifecycle (Init/Fini).
func New(screen tcell.Screen) *Screen {
	return &Screen{s: screen}
}

// Size returns the screen dimensions
func (sc *Screen) Size() (width, height int) {
	return sc.s.Size()
}

// SetCell stages one cell. Combining sequences are split into tcell's
// primary rune plus combining runes.
func (sc *Screen) SetCell(x, y int, c terminal.Cell) {
	style := tcell.StyleDefault.
		Foreground(toTcellColor(c.Fg)).
		Background(toTcellColor(c.Bg)).
		Attributes(toTcellAttrs(c.Attrs))

	runes := []rune(c.Glyph)
	if len(runes) == 0 {
		runes = []rune{' '}
	}
	var comb []rune
	if len(runes) > 1 {
		comb = runes[1:]
	}
	sc.s.SetContent(x, y, runes[0], comb, style)
}

// Flush shows staged content
func (sc *Screen) Flush() error {
	sc.s.Show()
	return nil
}

// SetCursorVisible shows the cursor at its last position or hides it
func (sc *Screen) SetCursorVisible(visible bool) {
	sc.visible = visible
	if visible {
		sc.s.ShowCursor(sc.cursorX, sc.cursorY)
	} else {
		sc.s.HideCursor()
	}
}

// Cursor returns the last position set via MoveCursor
func (sc *Screen) Cursor() (x, y int) {
	return sc.cursorX, sc.cursorY
}

// MoveCursor positions the cursor (0-indexed)
func (sc *Screen) MoveCursor(x, y int) {
	sc.cursorX, sc.cursorY = x, y
	if sc.visible {
		sc.s.ShowCursor(x, y)
	}
}

// Clear fills the screen with the given background
func (sc *Screen) Clear(bg terminal.Color) {
	sc.s.Fill(' ', tcell.StyleDefault.Background(toTcellColor(bg)))
	sc.s.Show()
}

func toTcellColor(c terminal.Color) tcell.Color {
	if !c.Valid {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// FromTcellColor converts a tcell color to the terminal color model
func FromTcellColor(c tcell.Color) terminal.Color {
	if c == tcell.ColorDefault {
		return terminal.ColorDefault
	}
	r, g, b := c.TrueColor().RGB()
	return terminal.NewColor(uint8(r), uint8(g), uint8(b))
}

func toTcellAttrs(a terminal.Attr) tcell.AttrMask {
	var m tcell.AttrMask
	if a&terminal.AttrBold != 0 {
		m |= tcell.AttrBold
	}
	if a&terminal.AttrDim != 0 {
		m |= tcell.AttrDim
	}
	if a&terminal.AttrItalic != 0 {
		m |= tcell.AttrItalic
	}
	if a&terminal.AttrUnderline != 0 {
		m |= tcell.AttrUnderline
	}
	if a&terminal.AttrBlink != 0 {
		m |= tcell.AttrBlink
	}
	if a&terminal.AttrReverse != 0 {
		m |= tcell.AttrReverse
	}
	return m
}
