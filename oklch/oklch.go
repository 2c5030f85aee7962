// Package oklch converts between 8-bit sRGB and the Oklch cylindrical form of
// Oklab, and blends colors perceptually. All morph color math happens here.
//
// Matrices are from Björn Ottosson's Oklab reference. Hue is in radians,
// normalized to [0, 2π). The terminal-default color is carried through as an
// invalid value; it never enters numeric blending.
package oklch

import (
	"math"

	"github.com/lixenwraith/morph/terminal"
)

// Color is a point in Oklch: lightness L in [0,1], chroma C in [0, ~0.4],
// hue H in [0, 2π). Valid=false marks the terminal default sentinel.
type Color struct {
	L, C, H float64
	Valid   bool
}

// nearGray is the chroma below which hue is numerically meaningless
const nearGray = 1e-6

// MaxDistance bounds Distance for any pair of colors.
// Worst case is √(1 + 0.4² + (π·0.4)²) ≈ 1.66; the invalid-mismatch rule
// contributes 1.0. Rounded up for use as a cost-matrix ceiling.
const MaxDistance = 2.0

// FromRGB converts an sRGB terminal color to Oklch.
// The terminal default maps to the invalid sentinel.
func FromRGB(c terminal.Color) Color {
	if !c.Valid {
		return Color{}
	}

	lr := srgbToLinear(float64(c.R) / 255.0)
	lg := srgbToLinear(float64(c.G) / 255.0)
	lb := srgbToLinear(float64(c.B) / 255.0)

	// Linear RGB → LMS
	l := 0.4122214708*lr + 0.5363325363*lg + 0.0514459929*lb
	m := 0.2119034982*lr + 0.6806995451*lg + 0.1073969566*lb
	s := 0.0883024619*lr + 0.2817188376*lg + 0.6299787005*lb

	// LMS → Oklab (cube root)
	lp := math.Cbrt(l)
	mp := math.Cbrt(m)
	sp := math.Cbrt(s)

	L := 0.2104542553*lp + 0.7936177850*mp - 0.0040720468*sp
	a := 1.9779984951*lp - 2.4285922050*mp + 0.4505937099*sp
	b := 0.0259040371*lp + 0.7827717662*mp - 0.8086757660*sp

	// Oklab → Oklch
	chroma := math.Sqrt(a*a + b*b)
	hue := math.Atan2(b, a)
	if hue < 0 {
		hue += 2 * math.Pi
	}

	return Color{L: L, C: chroma, H: hue, Valid: true}
}

// RGB converts back to an sRGB terminal color, clamping each channel.
// The invalid sentinel maps to the terminal default.
func (c Color) RGB() terminal.Color {
	if !c.Valid {
		return terminal.ColorDefault
	}

	// Oklch → Oklab
	a := c.C * math.Cos(c.H)
	b := c.C * math.Sin(c.H)

	// Oklab → LMS'
	lp := c.L + 0.3963377774*a + 0.2158037573*b
	mp := c.L - 0.1055613458*a - 0.0638541728*b
	sp := c.L - 0.0894841775*a - 1.2914855480*b

	// Cube: LMS' → LMS
	l := lp * lp * lp
	m := mp * mp * mp
	s := sp * sp * sp

	// LMS → linear RGB
	lr := +4.0767416621*l - 3.3077115913*m + 0.2309699292*s
	lg := -1.2684380046*l + 2.6097574011*m - 0.3413193965*s
	lb := -0.0041960863*l - 0.7034186147*m + 1.7076147010*s

	return terminal.NewColor(
		channel8(linearToSRGB(clamp01(lr))),
		channel8(linearToSRGB(clamp01(lg))),
		channel8(linearToSRGB(clamp01(lb))),
	)
}

// Blend interpolates from a to b with u in [0,1]: linear in L and C,
// shortest-arc circular in H. A near-gray endpoint adopts the partner's hue.
// Default (invalid) endpoints do not interpolate; they snap at u=0.5.
func Blend(a, b Color, u float64) Color {
	if u <= 0 {
		return a
	}
	if u >= 1 {
		return b
	}
	if !a.Valid || !b.Valid {
		if u < 0.5 {
			return a
		}
		return b
	}

	h1, h2 := a.H, b.H
	switch {
	case a.C < nearGray:
		h1 = h2
	case b.C < nearGray:
		h2 = h1
	default:
		// Shortest arc: pull the endpoints within π of each other
		if d := h2 - h1; d > math.Pi {
			h2 -= 2 * math.Pi
		} else if d < -math.Pi {
			h2 += 2 * math.Pi
		}
	}

	h := h1 + (h2-h1)*u
	if h < 0 {
		h += 2 * math.Pi
	} else if h >= 2*math.Pi {
		h -= 2 * math.Pi
	}

	return Color{
		L:     a.L + (b.L-a.L)*u,
		C:     a.C + (b.C-a.C)*u,
		H:     h,
		Valid: true,
	}
}

// Distance is the perceptual distance √(ΔL² + ΔC² + (Δh_arc·C_mean)²).
// The hue term is chroma-weighted so near-gray colors do not pay for hue
// rotation. A default/explicit mismatch costs 1.0; two defaults cost 0.
func Distance(a, b Color) float64 {
	if !a.Valid || !b.Valid {
		if a.Valid == b.Valid {
			return 0
		}
		return 1.0
	}

	dl := a.L - b.L
	dc := a.C - b.C
	dh := math.Abs(a.H - b.H)
	if dh > math.Pi {
		dh = 2*math.Pi - dh
	}
	cm := (a.C + b.C) / 2

	return math.Sqrt(dl*dl + dc*dc + dh*cm*dh*cm)
}

// Dark returns the zero-lightness version of a color, preserving chroma and
// hue so orphan fades stay on-hue. Defaults stay default.
func Dark(c Color) Color {
	if !c.Valid {
		return c
	}
	return Color{L: 0, C: c.C, H: c.H, Valid: true}
}

// srgbToLinear converts a single sRGB component [0,1] to linear RGB
func srgbToLinear(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// linearToSRGB converts a single linear RGB component [0,1] to sRGB
func linearToSRGB(v float64) float64 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1.0/2.4) - 0.055
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func channel8(v float64) uint8 {
	n := math.Round(v * 255.0)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}
