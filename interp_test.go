package morph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/morph/buffer"
	"github.com/lixenwraith/morph/ease"
	"github.com/lixenwraith/morph/oklch"
	"github.com/lixenwraith/morph/terminal"
)

// endpointCases builds a spread of prev/next pairs exercising every entry kind
func endpointCases(t *testing.T) []struct {
	name       string
	prev, next *buffer.Buffer
	weights    Weights
} {
	t.Helper()

	identityPrev := buffer.New(6, 2)
	fillText(identityPrev, 0, 0, "same", terminal.ColorBrightWhite)

	movePrev := buffer.New(8, 2)
	moveNext := buffer.New(8, 2)
	fillText(movePrev, 0, 0, "go", terminal.ColorBrightGreen)
	fillText(moveNext, 4, 1, "go", terminal.ColorBrightGreen)

	recolorPrev := buffer.New(5, 1)
	recolorNext := buffer.New(5, 1)
	fillText(recolorPrev, 0, 0, "HELLO", terminal.ColorBrightWhite)
	fillText(recolorNext, 0, 0, "HELLO", terminal.NewColor(255, 0, 0))

	orphanPrev := buffer.New(6, 1)
	orphanNext := buffer.New(6, 1)
	orphanPrev.Set(0, 0, cellOn("A", terminal.ColorBrightWhite))
	orphanNext.Set(4, 0, cellOn("B", terminal.ColorBrightWhite))

	mixedPrev := buffer.New(12, 3)
	mixedNext := buffer.New(12, 3)
	fillText(mixedPrev, 0, 0, "keep", terminal.ColorBrightWhite)
	fillText(mixedNext, 0, 0, "keep", terminal.ColorBrightWhite)
	fillText(mixedPrev, 1, 1, "slide", terminal.ColorBrightCyan)
	fillText(mixedNext, 6, 2, "slide", terminal.ColorBrightCyan)
	mixedPrev.Set(11, 0, cellOn("*", terminal.ColorBrightYellow))
	mixedNext.Set(11, 2, cellOn("%", terminal.ColorBrightMagenta))

	return []struct {
		name       string
		prev, next *buffer.Buffer
		weights    Weights
	}{
		{"identity", identityPrev, identityPrev, Liquid},
		{"move", movePrev, moveNext, Liquid},
		{"recolor", recolorPrev, recolorNext, Liquid},
		{"orphans", orphanPrev, orphanNext, Crisp},
		{"mixed", mixedPrev, mixedNext, Liquid},
	}
}

func TestRenderEndpointsExact(t *testing.T) {
	for _, tc := range endpointCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := Diff(tc.prev, tc.next, tc.weights, ease.InOut)
			require.NoError(t, err)

			require.True(t, tc.prev.Equal(Render(plan, 0)), "t=0 must be the source frame")
			require.True(t, tc.next.Equal(Render(plan, 1)), "t=1 must be the target frame")
		})
	}
}

func TestRenderClampsTime(t *testing.T) {
	for _, tc := range endpointCases(t) {
		plan, err := Diff(tc.prev, tc.next, tc.weights, ease.Linear)
		require.NoError(t, err)

		require.True(t, tc.prev.Equal(Render(plan, -3)), "%s: t<0 clamps to source", tc.name)
		require.True(t, tc.next.Equal(Render(plan, 7)), "%s: t>1 clamps to target", tc.name)
		require.True(t, tc.prev.Equal(Render(plan, math.NaN())), "%s: NaN renders as t=0", tc.name)
	}
}

func TestRenderNaNReportsDiagnostic(t *testing.T) {
	prev := buffer.New(4, 1)
	next := buffer.New(4, 1)
	next.Set(1, 0, cellOn("n", terminal.ColorBrightWhite))

	plan, err := Diff(prev, next, Liquid, ease.Linear)
	require.NoError(t, err)

	var msgs []string
	plan.Diag = func(s string) { msgs = append(msgs, s) }

	got := Render(plan, math.NaN())
	require.True(t, prev.Equal(got), "NaN renders the source frame")
	require.Len(t, msgs, 1, "NaN time reported through the diagnostic sink")

	// Finite times stay silent
	Render(plan, 0.5)
	require.Len(t, msgs, 1)
}

func TestRenderTranslationMidpoint(t *testing.T) {
	prev := buffer.New(8, 1)
	next := buffer.New(8, 1)
	red := terminal.NewColor(255, 0, 0)
	prev.Set(0, 0, cellOn("X", red))
	next.Set(5, 0, cellOn("X", red))

	plan, err := Diff(prev, next, Liquid, ease.Linear)
	require.NoError(t, err)

	got := Render(plan, 0.5)
	found := -1
	for x := 0; x < 8; x++ {
		if c, _ := got.Get(x, 0); c.Glyph == "X" {
			found = x
		}
	}
	require.True(t, found == 2 || found == 3, "expected X near column 2-3, got %d", found)
}

func TestRenderRecolorMidpoint(t *testing.T) {
	prev := buffer.New(5, 1)
	next := buffer.New(5, 1)
	white := terminal.ColorBrightWhite
	red := terminal.NewColor(255, 0, 0)
	fillText(prev, 0, 0, "HELLO", white)
	fillText(next, 0, 0, "HELLO", red)

	plan, err := Diff(prev, next, Liquid, ease.Linear)
	require.NoError(t, err)

	got := Render(plan, 0.5)
	wantFg := oklch.Blend(oklch.FromRGB(white), oklch.FromRGB(red), 0.5).RGB()
	for x := 0; x < 5; x++ {
		c, _ := got.Get(x, 0)
		require.Equal(t, string("HELLO"[x]), c.Glyph, "glyphs must not change during recolor")
		require.Equal(t, wantFg, c.Fg, "foreground must be the Oklch midpoint")
	}
}

func TestRenderOrphanVisibility(t *testing.T) {
	prev := buffer.New(6, 1)
	next := buffer.New(6, 1)
	prev.Set(0, 0, cellOn("A", terminal.ColorBrightWhite))
	next.Set(4, 0, cellOn("B", terminal.ColorBrightWhite))

	plan, err := Diff(prev, next, Crisp, ease.Linear)
	require.NoError(t, err)

	// Bright white sits near L=1, so the exit glyph survives until ~0.85
	// and the enter glyph lands around ~0.15. Mid-transition shows both.
	mid := Render(plan, 0.5)
	a, _ := mid.Get(0, 0)
	b, _ := mid.Get(4, 0)
	require.Equal(t, "A", a.Glyph, "exit glyph still visible mid-transition")
	require.Equal(t, "B", b.Glyph, "enter glyph already visible mid-transition")

	// Mid-transition orphans are dimmed toward darkness
	aMid := oklch.FromRGB(a.Fg)
	full := oklch.FromRGB(terminal.ColorBrightWhite)
	require.Less(t, aMid.L, full.L, "exit foreground dims over time")

	late := Render(plan, 0.9)
	a, _ = late.Get(0, 0)
	b, _ = late.Get(4, 0)
	require.NotEqual(t, "A", a.Glyph, "exit glyph gone at t=0.9")
	require.Equal(t, "B", b.Glyph, "enter glyph present at t=0.9")
}

func TestRenderCoverage(t *testing.T) {
	for _, tc := range endpointCases(t) {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := Diff(tc.prev, tc.next, tc.weights, ease.Linear)
			require.NoError(t, err)

			// At every tick, each grid position holds a definite cell:
			// either written by an entry or the plan background.
			for _, tt := range []float64{0, 0.3, 0.7, 1} {
				got := Render(plan, tt)
				require.Equal(t, plan.Width, got.Width())
				require.Equal(t, plan.Height, got.Height())
				for y := 0; y < got.Height(); y++ {
					for x := 0; x < got.Width(); x++ {
						_, ok := got.Get(x, y)
						require.True(t, ok)
					}
				}
			}
		})
	}
}

func TestRenderMoveCollisionBrighterWins(t *testing.T) {
	prev := buffer.New(7, 3)
	next := buffer.New(7, 3)
	bright := terminal.ColorBrightWhite
	dim := terminal.NewColor(90, 90, 90)
	// Two cells crossing through the same midpoint cell (3,1)
	prev.Set(0, 0, cellOn("b", bright))
	next.Set(6, 2, cellOn("b", bright))
	prev.Set(0, 2, cellOn("d", dim))
	next.Set(6, 0, cellOn("d", dim))

	plan, err := Diff(prev, next, Liquid, ease.Linear)
	require.NoError(t, err)
	require.Equal(t, 2, countKind(plan, Move))

	mid := Render(plan, 0.5)
	c, _ := mid.Get(3, 1)
	require.Equal(t, "b", c.Glyph, "brighter source wins the shared cell")
}

func TestRenderIntoReusesBuffer(t *testing.T) {
	prev := buffer.New(4, 1)
	next := buffer.New(4, 1)
	next.Set(2, 0, cellOn("z", terminal.ColorBrightWhite))

	plan, err := Diff(prev, next, Liquid, ease.Linear)
	require.NoError(t, err)

	dst := buffer.New(4, 1)
	RenderInto(plan, 1, dst)
	require.True(t, next.Equal(dst))

	// Stale contents from a previous tick must not leak through
	RenderInto(plan, 0, dst)
	require.True(t, prev.Equal(dst))

	// Mismatched destination is left untouched
	other := buffer.New(9, 9)
	marker := cellOn("!", terminal.ColorBrightRed)
	other.Set(0, 0, marker)
	RenderInto(plan, 0.5, other)
	c, _ := other.Get(0, 0)
	require.Equal(t, marker, c)
}
