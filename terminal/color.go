package terminal

import (
	"os"
	"strings"
)

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorMode256       ColorMode = iota // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

// Color represents a 24-bit color or the terminal default.
// The zero value is the terminal default (Valid=false); defaults are a
// sentinel and never enter numeric blending.
type Color struct {
	R, G, B uint8
	Valid   bool
}

// NewColor creates an explicit 24-bit color
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Valid: true}
}

// ColorDefault is the terminal default foreground/background sentinel
var ColorDefault = Color{}

// palette256 maps 5-bit quantized RGB to the nearest xterm-256 index.
// 32×32×32 = 32KB, built once at startup.
var palette256 [32 * 32 * 32]uint8

func init() {
	for i := range palette256 {
		// Expand each 5-bit channel back to 8 bits, biased to the
		// quantization bucket's midpoint
		r := (i>>10&31)<<3 | 4
		g := (i>>5&31)<<3 | 4
		b := (i&31)<<3 | 4
		palette256[i] = nearest256(r, g, b)
	}
}

// Index256 maps a color to the closest xterm-256 palette entry via the
// precomputed LUT. The terminal default has no palette index: ok is false
// and callers fall back to the default-color SGR codes (39/49).
func Index256(c Color) (index uint8, ok bool) {
	if !c.Valid {
		return 0, false
	}
	return palette256[int(c.R>>3)<<10|int(c.G>>3)<<5|int(c.B>>3)], true
}

// cube6 holds the channel levels of the xterm 6×6×6 color cube
var cube6 = [6]int{0, 95, 135, 175, 215, 255}

// nearest256 does the full Redmean search; called only from init()
func nearest256(r, g, b int) uint8 {
	// Pure grays map straight onto the grayscale ramp (232-255)
	if r == g && g == b {
		switch {
		case r < 8:
			return 16
		case r > 238:
			return 231
		}
		return uint8(232 + (r-8)/10)
	}

	best := uint8(16)
	bestDist := 1 << 30

	// Color cube, indices 16-231
	for ri, rv := range cube6 {
		for gi, gv := range cube6 {
			for bi, bv := range cube6 {
				if d := redmean(r, g, b, rv, gv, bv); d < bestDist {
					bestDist = d
					best = uint8(16 + 36*ri + 6*gi + bi)
				}
			}
		}
	}

	// Grayscale ramp, indices 232-255, levels 8..238 in steps of 10
	for i, v := 0, 8; i < 24; i, v = i+1, v+10 {
		if d := redmean(r, g, b, v, v, v); d < bestDist {
			bestDist = d
			best = uint8(232 + i)
		}
	}

	return best
}

// redmean is the perceptually-weighted squared distance between two colors
// (https://en.wikipedia.org/wiki/Color_difference#sRGB)
func redmean(r1, g1, b1, r2, g2, b2 int) int {
	rm := (r1 + r2) / 2
	dr := r1 - r2
	dg := g1 - g2
	db := b1 - b2
	return ((512+rm)*dr*dr)>>8 + 4*dg*dg + ((767-rm)*db*db)>>8
}

// truecolorVars are session markers of terminals known to support 24-bit
var truecolorVars = []string{
	"KITTY_WINDOW_ID",
	"KONSOLE_VERSION",
	"ITERM_SESSION_ID",
	"ALACRITTY_WINDOW_ID",
	"ALACRITTY_LOG",
	"WEZTERM_PANE",
}

// DetectColorMode determines terminal color capability from environment
func DetectColorMode() ColorMode {
	switch os.Getenv("COLORTERM") {
	case "truecolor", "24bit":
		return ColorModeTrueColor
	}

	for _, v := range truecolorVars {
		if os.Getenv(v) != "" {
			return ColorModeTrueColor
		}
	}

	term := os.Getenv("TERM")
	for _, hint := range []string{"truecolor", "24bit", "direct"} {
		if strings.Contains(term, hint) {
			return ColorModeTrueColor
		}
	}

	return ColorMode256
}
