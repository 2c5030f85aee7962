package morph

import (
	"math"

	"github.com/lixenwraith/morph/buffer"
	"github.com/lixenwraith/morph/oklch"
	"github.com/lixenwraith/morph/terminal"
)

// Render materializes the frame at normalized time t. t is clamped to [0,1];
// NaN is treated as 0 and reported through the plan's diagnostic sink.
// Render(plan, 0) is bit-identical to the source frame and Render(plan, 1)
// to the target frame.
func Render(plan *Plan, t float64) *buffer.Buffer {
	dst := buffer.NewFilled(plan.Width, plan.Height, plan.Background)
	RenderInto(plan, t, dst)
	return dst
}

// RenderInto renders into a pre-sized buffer, allocating nothing. The
// destination must match the plan's dimensions; mismatched buffers are left
// untouched.
func RenderInto(plan *Plan, t float64, dst *buffer.Buffer) {
	if dst.Width() != plan.Width || dst.Height() != plan.Height {
		return
	}

	if math.IsNaN(t) {
		if plan.Diag != nil {
			plan.Diag("morph: render time is NaN, treated as 0")
		}
		t = 0
	} else if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	u := plan.Ease(t)
	if u < 0 {
		u = 0
	} else if u > 1 {
		u = 1
	}

	dst.FillWith(plan.Background)

	// Static entries first; moving cells are foreground and render after,
	// in ascending collision priority, so they overwrite anything below.
	for i := range plan.Entries {
		e := &plan.Entries[i]
		if e.Kind != Move {
			writeEntry(dst, e, u)
		}
	}
	for _, i := range plan.moveSeq {
		writeEntry(dst, &plan.Entries[i], u)
	}
}

func writeEntry(dst *buffer.Buffer, e *Entry, u float64) {
	// Endpoints are exact: no blend round-off may leak into logical frames
	if u <= 0 {
		dst.Set(e.From.X, e.From.Y, e.A)
		return
	}
	if u >= 1 {
		dst.Set(e.To.X, e.To.Y, e.B)
		return
	}

	if e.Kind == Stable {
		dst.Set(e.To.X, e.To.Y, e.A)
		return
	}

	var c terminal.Cell
	if u < e.Tau {
		c.Glyph = e.A.Glyph
		c.Attrs = e.A.Attrs
	} else {
		c.Glyph = e.B.Glyph
		c.Attrs = e.B.Attrs
	}
	c.Fg = oklch.Blend(e.FgA, e.FgB, u).RGB()
	c.Bg = oklch.Blend(e.BgA, e.BgB, u).RGB()

	x, y := e.To.X, e.To.Y
	if e.Kind == Move {
		x = lerpRound(e.From.X, e.To.X, u)
		y = lerpRound(e.From.Y, e.To.Y, u)
	}
	dst.Set(x, y, c)
}

// lerpRound interpolates grid coordinates with round-to-nearest
func lerpRound(a, b int, u float64) int {
	return int(math.Round(float64(a) + (float64(b)-float64(a))*u))
}
