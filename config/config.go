// Package config loads morph transition options from TOML files, for
// applications that expose morphing as user configuration.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/morph"
	"github.com/lixenwraith/morph/ease"
)

// Options is the on-disk shape of a morph configuration.
// Unset fields keep the engine defaults.
type Options struct {
	Preset         string        `toml:"preset"`          // liquid | crisp | fade
	TransitionMs   int           `toml:"transition_ms"`   // total morph duration
	Ticks          int           `toml:"ticks"`           // intermediate frames per morph
	Mode           string        `toml:"mode"`            // blocking | driven
	Easing         string        `toml:"easing"`          // linear | in | out | in-out
	Bezier         []float64     `toml:"bezier"`          // x1,y1,x2,y2; overrides easing
	GlyphThreshold float64       `toml:"glyph_threshold"` // legibility lightness
	Weights        *WeightsTable `toml:"weights"`         // overrides preset
}

// WeightsTable overrides individual cost terms
type WeightsTable struct {
	Spatial         float64 `toml:"spatial"`
	Glyph           float64 `toml:"glyph"`
	GlyphMismatch   float64 `toml:"glyph_mismatch"`
	Color           float64 `toml:"color"`
	MaxDisplacement float64 `toml:"max_displacement"`
}

// Load reads a TOML file and resolves it into a morph configuration
func Load(path string) (morph.Config, error) {
	var opts Options
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return morph.Config{}, fmt.Errorf("config: %w", err)
	}
	return Resolve(opts)
}

// Parse decodes TOML from a string and resolves it
func Parse(data string) (morph.Config, error) {
	var opts Options
	if _, err := toml.Decode(data, &opts); err != nil {
		return morph.Config{}, fmt.Errorf("config: %w", err)
	}
	return Resolve(opts)
}

// Resolve turns decoded options into a validated morph configuration,
// starting from morph.DefaultConfig for anything unset.
func Resolve(opts Options) (morph.Config, error) {
	cfg := morph.DefaultConfig()

	switch opts.Preset {
	case "", "liquid":
		cfg.Weights = morph.Liquid
	case "crisp":
		cfg.Weights = morph.Crisp
	case "fade":
		cfg.Weights = morph.Fade
	default:
		return morph.Config{}, fmt.Errorf("config: unknown preset %q", opts.Preset)
	}

	if opts.Weights != nil {
		cfg.Weights = morph.Weights{
			Spatial:         opts.Weights.Spatial,
			Glyph:           opts.Weights.Glyph,
			GlyphMismatch:   opts.Weights.GlyphMismatch,
			Color:           opts.Weights.Color,
			MaxDisplacement: opts.Weights.MaxDisplacement,
		}
	}

	if opts.TransitionMs != 0 {
		cfg.Transition = time.Duration(opts.TransitionMs) * time.Millisecond
	}
	if opts.Ticks != 0 {
		cfg.Ticks = opts.Ticks
	}
	if opts.GlyphThreshold != 0 {
		cfg.GlyphThreshold = opts.GlyphThreshold
	}

	switch opts.Mode {
	case "", "blocking":
		cfg.Mode = morph.ModeBlocking
	case "driven":
		cfg.Mode = morph.ModeDriven
	default:
		return morph.Config{}, fmt.Errorf("config: unknown mode %q", opts.Mode)
	}

	switch {
	case len(opts.Bezier) == 4:
		f, err := ease.CubicBezier(opts.Bezier[0], opts.Bezier[1], opts.Bezier[2], opts.Bezier[3])
		if err != nil {
			return morph.Config{}, fmt.Errorf("config: %w", err)
		}
		cfg.Ease = f
	case len(opts.Bezier) != 0:
		return morph.Config{}, fmt.Errorf("config: bezier needs 4 control values, got %d", len(opts.Bezier))
	case opts.Easing != "":
		f, err := ease.ByName(opts.Easing)
		if err != nil {
			return morph.Config{}, fmt.Errorf("config: %w", err)
		}
		cfg.Ease = f
	}

	return cfg, nil
}
