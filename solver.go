package morph

import (
	"fmt"
	"sort"

	"github.com/lixenwraith/morph/buffer"
	"github.com/lixenwraith/morph/ease"
	"github.com/lixenwraith/morph/oklch"
	"github.com/lixenwraith/morph/terminal"
)

// DefaultGlyphThreshold is the legibility lightness below which a glyph is
// treated as invisible, used to hide glyph swaps inside crossfades.
const DefaultGlyphThreshold = 0.15

// maxColorCost bounds the color term of any matrix entry: two channel pairs
// (foreground and background), each at most oklch.MaxDistance apart.
const maxColorCost = 2 * oklch.MaxDistance

// Diff classifies the cells between two equal-sized buffers and freezes the
// result into a Plan. Equal inputs with equal weights yield equal plans.
func Diff(prev, next *buffer.Buffer, w Weights, e ease.Func) (*Plan, error) {
	return diff(prev, next, w, e, DefaultGlyphThreshold)
}

// candidate is an interesting cell on one side of the diff
type candidate struct {
	pos   Position
	cell  terminal.Cell
	fg    oklch.Color
	bg    oklch.Color
	index int // row-major position index, used for tie-breaking
}

func diff(prev, next *buffer.Buffer, w Weights, e ease.Func, threshold float64) (*Plan, error) {
	if prev.Width() != next.Width() || prev.Height() != next.Height() {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch,
			prev.Width(), prev.Height(), next.Width(), next.Height())
	}

	width, height := next.Width(), next.Height()
	background := next.Fill()
	if e == nil {
		e = ease.Linear
	}

	plan := &Plan{
		Width:          width,
		Height:         height,
		Background:     background,
		Weights:        w,
		Ease:           e,
		GlyphThreshold: threshold,
	}

	// Partition pass: stable cells are emitted directly, everything else
	// that is non-empty becomes an assignment candidate.
	var stable []Entry
	var sources, targets []candidate
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			a, _ := prev.Get(x, y)
			b, _ := next.Get(x, y)
			p := Position{X: x, Y: y}

			if a == b {
				if a == background {
					continue
				}
				stable = append(stable, Entry{Kind: Stable, From: p, To: p, A: a, B: a})
				continue
			}
			if a != background {
				sources = append(sources, newCandidate(p, a, y*width+x))
			}
			if b != background {
				targets = append(targets, newCandidate(p, b, y*width+x))
			}
		}
	}

	var mutates, moves, orphans []Entry
	addExit := func(c candidate) {
		orphans = append(orphans, exitEntry(c, background, threshold))
	}
	addEnter := func(c candidate) {
		orphans = append(orphans, enterEntry(c, background, threshold))
	}

	if n := max(len(sources), len(targets)); n > 0 {
		// Any match at or above orphanCost is left as an orphan pair. Real
		// costs are capped there too: one hopeless pairing must not be able
		// to distort the rest of the assignment, since splitting it can
		// never cost more than orphanCost.
		orphanCost := w.Spatial*w.MaxDisplacement + w.Glyph*w.GlyphMismatch + w.Color*maxColorCost

		cost := make([][]float64, n)
		for i := range cost {
			row := make([]float64, n)
			for j := range row {
				if i < len(sources) && j < len(targets) {
					row[j] = min(matchCost(w, sources[i], targets[j]), orphanCost)
				} else {
					row[j] = orphanCost
				}
			}
			cost[i] = row
		}

		col := assign(cost)
		for i, j := range col {
			paired := i < len(sources) && j < len(targets)
			if paired && cost[i][j] < orphanCost {
				s, t := sources[i], targets[j]
				if s.pos == t.pos {
					mutates = append(mutates, pairEntry(Mutate, s, t, threshold))
				} else {
					moves = append(moves, pairEntry(Move, s, t, threshold))
				}
				continue
			}
			if i < len(sources) {
				addExit(sources[i])
			}
			if j < len(targets) {
				addEnter(targets[j])
			}
		}
	}

	// Deterministic entry order: stable is already row-major from the scan
	sort.Slice(mutates, func(i, j int) bool { return posLess(mutates[i].To, mutates[j].To) })
	sort.Slice(moves, func(i, j int) bool { return posLess(moves[i].To, moves[j].To) })
	sort.Slice(orphans, func(i, j int) bool {
		if orphans[i].To != orphans[j].To {
			return posLess(orphans[i].To, orphans[j].To)
		}
		return orphans[i].Kind == Exit && orphans[j].Kind == Enter
	})

	plan.Entries = make([]Entry, 0, len(stable)+len(mutates)+len(moves)+len(orphans))
	plan.Entries = append(plan.Entries, stable...)
	plan.Entries = append(plan.Entries, mutates...)
	plan.Entries = append(plan.Entries, moves...)
	plan.Entries = append(plan.Entries, orphans...)

	// Moves render in ascending collision priority so that when two moving
	// cells share a cell mid-flight, the brighter source (tie: lower
	// row-major source index) lands on top.
	for idx, en := range plan.Entries {
		if en.Kind == Move {
			plan.moveSeq = append(plan.moveSeq, idx)
		}
	}
	sort.Slice(plan.moveSeq, func(i, j int) bool {
		a, b := &plan.Entries[plan.moveSeq[i]], &plan.Entries[plan.moveSeq[j]]
		if a.srcLight != b.srcLight {
			return a.srcLight < b.srcLight
		}
		return a.srcIndex > b.srcIndex
	})

	return plan, nil
}

func newCandidate(p Position, c terminal.Cell, index int) candidate {
	return candidate{
		pos:   p,
		cell:  c,
		fg:    oklch.FromRGB(c.Fg),
		bg:    oklch.FromRGB(c.Bg),
		index: index,
	}
}

// matchCost is the assignment cost of pairing source s with target t
func matchCost(w Weights, s, t candidate) float64 {
	dx := float64(s.pos.X - t.pos.X)
	dy := float64(s.pos.Y - t.pos.Y)
	c := w.Spatial * (dx*dx + dy*dy)
	if s.cell.Glyph != t.cell.Glyph {
		c += w.Glyph * w.GlyphMismatch
	}
	c += w.Color * (oklch.Distance(s.fg, t.fg) + oklch.Distance(s.bg, t.bg))
	return c
}

// pairEntry builds a Mutate or Move entry from a matched candidate pair
func pairEntry(kind EntryKind, s, t candidate, threshold float64) Entry {
	return Entry{
		Kind:     kind,
		From:     s.pos,
		To:       t.pos,
		A:        s.cell,
		B:        t.cell,
		FgA:      s.fg,
		FgB:      t.fg,
		BgA:      s.bg,
		BgB:      t.bg,
		Tau:      glyphCrossover(lightOf(s.fg), lightOf(t.fg), threshold),
		srcLight: lightOf(s.fg),
		srcIndex: s.index,
	}
}

// enterEntry fades a target-only cell in from darkness
func enterEntry(c candidate, background terminal.Cell, threshold float64) Entry {
	return Entry{
		Kind: Enter,
		From: c.pos,
		To:   c.pos,
		A:    background,
		B:    c.cell,
		FgA:  oklch.Dark(c.fg),
		FgB:  c.fg,
		BgA:  oklch.Dark(c.bg),
		BgB:  c.bg,
		Tau:  glyphCrossover(lightOf(oklch.Dark(c.fg)), lightOf(c.fg), threshold),
	}
}

// exitEntry fades a source-only cell out to darkness
func exitEntry(c candidate, background terminal.Cell, threshold float64) Entry {
	return Entry{
		Kind: Exit,
		From: c.pos,
		To:   c.pos,
		A:    c.cell,
		B:    background,
		FgA:  c.fg,
		FgB:  oklch.Dark(c.fg),
		BgA:  c.bg,
		BgB:  oklch.Dark(c.bg),
		Tau:  glyphCrossover(lightOf(c.fg), lightOf(oklch.Dark(c.fg)), threshold),
	}
}

// lightOf treats the terminal default as fully legible
func lightOf(c oklch.Color) float64 {
	if !c.Valid {
		return 1.0
	}
	return c.L
}

// glyphCrossover finds the point on the lightness ramp from la to lb where
// it crosses the legibility threshold; the glyph (and style bits) swap
// there. When both endpoints are legible the swap hides nothing, so it
// happens at the midpoint.
func glyphCrossover(la, lb, threshold float64) float64 {
	if la > threshold && lb > threshold {
		return 0.5
	}
	d := lb - la
	if d > -1e-9 && d < 1e-9 {
		return 0.5
	}
	tau := (threshold - la) / d
	if tau < 0 {
		return 0
	}
	if tau > 1 {
		return 1
	}
	return tau
}

func posLess(a, b Position) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}
