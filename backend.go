package morph

import (
	"fmt"
	"time"

	"github.com/lixenwraith/morph/buffer"
	"github.com/lixenwraith/morph/ease"
	"github.com/lixenwraith/morph/terminal"
)

// Backend is the capability set the morph engine consumes from the host
// renderer and exposes back to the application. terminal.Terminal and
// tcellterm.Screen both satisfy it.
type Backend interface {
	Size() (width, height int)
	SetCell(x, y int, c terminal.Cell)
	Flush() error
	SetCursorVisible(visible bool)
	Cursor() (x, y int)
	MoveCursor(x, y int)
	Clear(bg terminal.Color)
}

// Mode selects how the transition tick loop is driven
type Mode uint8

const (
	// ModeBlocking sleeps between ticks inside Flush for the configured
	// transition duration. The sleep is not cancellable; callers that need
	// cancellation use ModeDriven.
	ModeBlocking Mode = iota
	// ModeDriven renders one tick per Tick call from the caller's own loop
	ModeDriven
)

// TickResult reports the state of a driven transition after a Tick
type TickResult uint8

const (
	Idle TickResult = iota
	InProgress
	Completed
)

// Config controls transition playback
type Config struct {
	// Transition is the total duration of one morph
	Transition time.Duration
	// Ticks is the number of intermediate frames per morph
	Ticks int
	Mode  Mode
	// Weights is the solver cost profile; the zero value selects Liquid
	Weights Weights
	// Ease reparameterizes tick time; nil selects ease.InOut
	Ease ease.Func
	// GlyphThreshold is the legibility lightness for glyph snapping
	GlyphThreshold float64
	// Background fills positions neither frame claims; the zero value
	// selects buffer.DefaultFill
	Background terminal.Cell
	// Clock supplies time to the blocking loop; nil selects SystemClock
	Clock Clock
	// Diag receives diagnostic messages (overshoot, clamped time); nil
	// discards them
	Diag func(msg string)
}

// DefaultConfig returns the standard 200ms / 12 tick blocking configuration
func DefaultConfig() Config {
	return Config{
		Transition:     200 * time.Millisecond,
		Ticks:          12,
		Mode:           ModeBlocking,
		Weights:        Liquid,
		Ease:           ease.InOut,
		GlyphThreshold: DefaultGlyphThreshold,
		Background:     buffer.DefaultFill,
		Clock:          SystemClock{},
	}
}

// Morpher wraps a Backend and replaces each flush of a changed logical frame
// with a timed sequence of interpolated frames. The application draws as if
// the Morpher were the terminal; it never observes the morphing.
//
// A Morpher is single-threaded: draw/flush/tick calls must be serialized by
// the caller. Sharing one across goroutines without external synchronization
// is undefined.
type Morpher struct {
	inner Backend
	cfg   Config

	width  int
	height int

	prev    *buffer.Buffer // previous logical frame, owned here
	staging *buffer.Buffer // accumulates draws until the next flush
	scratch *buffer.Buffer // reused interpolated frame

	// Driven-mode transition state
	plan    *Plan
	target  *buffer.Buffer
	elapsed time.Duration

	// Cursor visibility the application asked for; restored after ticks
	cursorVisible bool
}

// Wrap creates a Morpher over inner. Configuration errors (zero ticks, zero
// duration, out-of-range glyph threshold) fail here, before any frame flows.
func Wrap(inner Backend, cfg Config) (*Morpher, error) {
	if cfg.Ticks <= 0 {
		return nil, fmt.Errorf("%w: tick count must be positive, got %d", ErrConfig, cfg.Ticks)
	}
	if cfg.Transition <= 0 {
		return nil, fmt.Errorf("%w: transition duration must be positive, got %v", ErrConfig, cfg.Transition)
	}
	if cfg.GlyphThreshold < 0 || cfg.GlyphThreshold >= 1 {
		return nil, fmt.Errorf("%w: glyph threshold must be in [0,1), got %g", ErrConfig, cfg.GlyphThreshold)
	}
	if cfg.Ease == nil {
		cfg.Ease = ease.InOut
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Weights == (Weights{}) {
		cfg.Weights = Liquid
	}
	if cfg.Background == (terminal.Cell{}) {
		cfg.Background = buffer.DefaultFill
	}

	w, h := inner.Size()
	m := &Morpher{
		inner:         inner,
		cfg:           cfg,
		width:         w,
		height:        h,
		prev:          buffer.NewFilled(w, h, cfg.Background),
		staging:       buffer.NewFilled(w, h, cfg.Background),
		scratch:       buffer.NewFilled(w, h, cfg.Background),
		cursorVisible: true,
	}
	return m, nil
}

// Size returns the wrapped backend's dimensions as captured at Wrap time
func (m *Morpher) Size() (width, height int) {
	return m.width, m.height
}

// SetCell accumulates a cell update into the staging frame
func (m *Morpher) SetCell(x, y int, c terminal.Cell) {
	m.staging.Set(x, y, c)
}

// Cursor passes through to the wrapped backend
func (m *Morpher) Cursor() (x, y int) {
	return m.inner.Cursor()
}

// MoveCursor passes through to the wrapped backend
func (m *Morpher) MoveCursor(x, y int) {
	m.inner.MoveCursor(x, y)
}

// SetCursorVisible records the application's choice. During a transition the
// cursor stays hidden; the recorded visibility is restored afterwards.
func (m *Morpher) SetCursorVisible(visible bool) {
	m.cursorVisible = visible
	if m.plan == nil {
		m.inner.SetCursorVisible(visible)
	}
}

// Clear passes through, abandons any in-flight transition, and resets both
// logical frames to the cleared state.
func (m *Morpher) Clear(bg terminal.Color) {
	m.inner.Clear(bg)
	if m.plan != nil {
		m.plan = nil
		m.target = nil
		m.inner.SetCursorVisible(m.cursorVisible)
	}
	cleared := terminal.Cell{Glyph: " ", Bg: bg}
	m.prev.FillWith(cleared)
	m.staging.FillWith(cleared)
}

// InTransition reports whether a driven transition is in flight
func (m *Morpher) InTransition() bool {
	return m.plan != nil
}

// Flush resolves the staged frame against the previous logical frame.
// An unchanged frame forwards directly. A changed frame is solved into a
// plan; in blocking mode the tick loop runs to completion here, in driven
// mode it arms the plan for subsequent Tick calls. A flush that arrives
// mid-transition (driven mode) captures the current interpolated frame as
// the source of the fresh plan.
func (m *Morpher) Flush() error {
	if m.plan == nil && m.staging.Equal(m.prev) {
		m.forward(m.staging)
		return m.inner.Flush()
	}

	if m.plan != nil {
		// Interrupted: the on-screen interpolated frame becomes the source
		RenderInto(m.plan, m.progress(), m.scratch)
		m.scratch.CopyInto(m.prev)
		m.plan = nil
		m.target = nil
	}

	next := m.staging.Clone()
	plan, err := diff(m.prev, next, m.cfg.Weights, m.cfg.Ease, m.cfg.GlyphThreshold)
	if err != nil {
		return err
	}
	plan.Diag = m.cfg.Diag

	m.inner.SetCursorVisible(false)

	if m.cfg.Mode == ModeDriven {
		m.plan = plan
		m.target = next
		m.elapsed = 0
		return nil
	}

	// Blocking tick loop
	n := m.cfg.Ticks
	interval := m.cfg.Transition / time.Duration(n)
	for k := 1; k <= n; k++ {
		RenderInto(plan, float64(k)/float64(n), m.scratch)
		m.forward(m.scratch)
		if err := m.inner.Flush(); err != nil {
			// Abort: forget the plan, resume at the logical target
			m.prev = next
			m.inner.SetCursorVisible(m.cursorVisible)
			return err
		}
		if k < n {
			m.cfg.Clock.Sleep(interval)
		}
	}

	m.prev = next
	m.inner.SetCursorVisible(m.cursorVisible)
	return nil
}

// Tick advances a driven transition by elapsed time and renders one frame.
// Results: Idle (no transition), InProgress, or Completed (final frame
// flushed, target promoted to the logical frame).
func (m *Morpher) Tick(elapsed time.Duration) (TickResult, error) {
	if m.plan == nil {
		return Idle, nil
	}

	m.elapsed += elapsed
	t := float64(m.elapsed) / float64(m.cfg.Transition)
	if t > 1 {
		over := m.elapsed - m.cfg.Transition
		if over > m.cfg.Transition/time.Duration(m.cfg.Ticks) {
			m.diag(fmt.Sprintf("morph: tick overshoot by %v, clamped", over))
		}
		t = 1
	}

	RenderInto(m.plan, t, m.scratch)
	m.forward(m.scratch)
	if err := m.inner.Flush(); err != nil {
		// Abort: resume at the logical target so the next frame starts clean
		m.prev = m.target
		m.plan = nil
		m.target = nil
		m.inner.SetCursorVisible(m.cursorVisible)
		return Idle, err
	}

	if t >= 1 {
		m.prev = m.target
		m.plan = nil
		m.target = nil
		m.inner.SetCursorVisible(m.cursorVisible)
		return Completed, nil
	}
	return InProgress, nil
}

// progress is the clamped normalized time of the driven transition
func (m *Morpher) progress() float64 {
	t := float64(m.elapsed) / float64(m.cfg.Transition)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// forward pushes a buffer's cells into the wrapped backend
func (m *Morpher) forward(b *buffer.Buffer) {
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			c, _ := b.Get(x, y)
			m.inner.SetCell(x, y, c)
		}
	}
}

func (m *Morpher) diag(msg string) {
	if m.cfg.Diag != nil {
		m.cfg.Diag(msg)
	}
}
