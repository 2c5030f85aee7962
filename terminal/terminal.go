package terminal

import (
	"os"
	"sync"

	"golang.org/x/term"
)

// Attr represents text attributes (bitmask)
type Attr uint8

const (
	AttrNone      Attr = 0
	AttrBold      Attr = 1 << 0
	AttrDim       Attr = 1 << 1
	AttrItalic    Attr = 1 << 2
	AttrUnderline Attr = 1 << 3
	AttrBlink     Attr = 1 << 4
	AttrReverse   Attr = 1 << 5
)

// AttrStyle masks all style bits
const AttrStyle Attr = AttrBold | AttrDim | AttrItalic | AttrUnderline | AttrBlink | AttrReverse

// Cell represents a single terminal cell.
// Glyph holds one user-perceived character; combining sequences occupy a
// single cell. An empty Glyph renders as a space. Cells are value objects,
// equality is componentwise.
type Cell struct {
	Glyph string
	Fg    Color
	Bg    Color
	Attrs Attr
}

// Terminal provides cell-level access to an ANSI terminal.
// SetCell stages updates; Flush diffs the staged grid against what is on
// screen and emits the minimal byte stream.
type Terminal struct {
	backend Backend

	colorMode ColorMode
	width     int
	height    int

	staging []Cell
	output  *outputBuffer

	cursorX       int
	cursorY       int
	cursorVisible bool

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

// New creates a Terminal over stdin/stdout
func New() *Terminal {
	return &Terminal{backend: newBackend()}
}

// Init enters raw mode, alternate screen, hides the cursor
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return err
	}

	t.colorMode = DetectColorMode()
	t.width, t.height = t.backend.Size()

	t.output = newOutputBuffer(t.backend, t.colorMode)
	t.output.resize(t.width, t.height)
	t.resizeStaging()

	t.backend.WriteRaw(csiAltScreenEnter)
	t.backend.WriteRaw(csiCursorHide)
	t.backend.WriteRaw(csiAutoWrapOff)
	t.cursorVisible = false

	t.output.clear(Color{})

	t.initialized = true
	return nil
}

// Fini restores terminal state. Safe to call multiple times.
func (t *Terminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	t.backend.WriteRaw(csiCursorShow)
	t.backend.WriteRaw(csiAutoWrapOn)
	t.backend.WriteRaw(csiAltScreenExit)
	t.backend.WriteRaw(csiSGR0)

	t.backend.Fini()
	t.finalized = true
}

// Size returns current terminal dimensions
func (t *Terminal) Size() (width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

// ColorMode returns detected color capability
func (t *Terminal) ColorMode() ColorMode {
	return t.colorMode
}

// SetCell stages a cell update at (x, y). Out-of-bounds writes are dropped.
func (t *Terminal) SetCell(x, y int, c Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return
	}
	t.staging[y*t.width+x] = c
}

// Flush writes staged cells to the terminal, diffing against screen contents
func (t *Terminal) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return nil
	}

	if err := t.output.flush(t.staging, t.width, t.height); err != nil {
		return err
	}

	if t.cursorVisible {
		return t.output.placeCursor(t.cursorX, t.cursorY)
	}
	return nil
}

// Clear fills the screen with the given background and resets staged cells
func (t *Terminal) Clear(bg Color) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	t.output.clear(bg)
	for i := range t.staging {
		t.staging[i] = Cell{Glyph: " ", Bg: bg}
	}
}

// SetCursorVisible shows/hides the cursor
func (t *Terminal) SetCursorVisible(visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cursorVisible == visible {
		return
	}
	t.cursorVisible = visible

	if !t.initialized || t.finalized {
		return
	}

	if visible {
		t.backend.WriteRaw(csiCursorShow)
	} else {
		t.backend.WriteRaw(csiCursorHide)
	}
}

// Cursor returns the last position set via MoveCursor (0-indexed)
func (t *Terminal) Cursor() (x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursorX, t.cursorY
}

// MoveCursor positions the cursor (0-indexed), clamping to screen bounds
func (t *Terminal) MoveCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x >= t.width {
		x = t.width - 1
	}
	if y >= t.height {
		y = t.height - 1
	}
	t.cursorX = x
	t.cursorY = y

	if !t.initialized || t.finalized {
		return
	}

	t.output.invalidateCursor()
	t.output.placeCursor(x, y)
}

// Sync re-reads terminal size and forces a full redraw on next Flush
func (t *Terminal) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	w, h := t.backend.Size()
	t.width = w
	t.height = h

	t.output.resize(w, h)
	t.output.forceFullRedraw()
	t.resizeStaging()
}

// SetResizeHandler registers a callback for terminal resize events.
// The callback runs on the signal goroutine; it must not call back into
// the Terminal.
func (t *Terminal) SetResizeHandler(handler func(width, height int)) {
	t.backend.SetResizeHandler(handler)
}

func (t *Terminal) resizeStaging() {
	size := t.width * t.height
	if cap(t.staging) < size {
		t.staging = make([]Cell, size)
	} else {
		t.staging = t.staging[:size]
	}
	for i := range t.staging {
		t.staging[i] = Cell{Glyph: " "}
	}
}

// EmergencyReset attempts to restore the terminal to a sane state.
// Call from panic recovery when Fini cannot run normally.
func EmergencyReset(f *os.File) {
	f.Write(csiCursorShow)
	f.Write(csiAutoWrapOn)
	f.Write(csiAltScreenExit)
	f.Write(csiSGR0)
	f.Write(csiRIS)
}

// IsTerminal reports whether fd refers to a terminal
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}
