package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lixenwraith/morph"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse("")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := morph.DefaultConfig()
	if cfg.Transition != want.Transition {
		t.Errorf("Expected default transition %v, got %v", want.Transition, cfg.Transition)
	}
	if cfg.Ticks != want.Ticks {
		t.Errorf("Expected default ticks %d, got %d", want.Ticks, cfg.Ticks)
	}
	if cfg.Weights != morph.Liquid {
		t.Errorf("Expected liquid preset by default, got %+v", cfg.Weights)
	}
	if cfg.Mode != morph.ModeBlocking {
		t.Errorf("Expected blocking mode by default, got %v", cfg.Mode)
	}
}

func TestParseFull(t *testing.T) {
	cfg, err := Parse(`
preset = "crisp"
transition_ms = 350
ticks = 24
mode = "driven"
easing = "out"
glyph_threshold = 0.2
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Weights != morph.Crisp {
		t.Errorf("Expected crisp preset, got %+v", cfg.Weights)
	}
	if cfg.Transition != 350*time.Millisecond {
		t.Errorf("Expected 350ms, got %v", cfg.Transition)
	}
	if cfg.Ticks != 24 {
		t.Errorf("Expected 24 ticks, got %d", cfg.Ticks)
	}
	if cfg.Mode != morph.ModeDriven {
		t.Errorf("Expected driven mode, got %v", cfg.Mode)
	}
	if cfg.GlyphThreshold != 0.2 {
		t.Errorf("Expected threshold 0.2, got %g", cfg.GlyphThreshold)
	}
	if got := cfg.Ease(0.5); got <= 0.5 {
		t.Errorf("Expected ease-out above the diagonal at 0.5, got %g", got)
	}
}

func TestParseWeightsOverride(t *testing.T) {
	cfg, err := Parse(`
preset = "fade"

[weights]
spatial = 9
glyph = 1
glyph_mismatch = 2
color = 3
max_displacement = 16
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := morph.Weights{Spatial: 9, Glyph: 1, GlyphMismatch: 2, Color: 3, MaxDisplacement: 16}
	if cfg.Weights != want {
		t.Errorf("Expected override %+v, got %+v", want, cfg.Weights)
	}
}

func TestParseBezier(t *testing.T) {
	cfg, err := Parse(`bezier = [0.25, 0.1, 0.25, 1.0]`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Ease(0) != 0 || cfg.Ease(1) != 1 {
		t.Error("Expected bezier curve endpoints 0 and 1")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Unknown preset", `preset = "gloopy"`},
		{"Unknown mode", `mode = "sideways"`},
		{"Unknown easing", `easing = "bouncy"`},
		{"Short bezier", `bezier = [0.1, 0.2]`},
		{"Invalid bezier x", `bezier = [1.5, 0.0, 0.5, 1.0]`},
		{"Bad toml", `preset = [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.data); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "morph.toml")
	if err := os.WriteFile(path, []byte(`preset = "fade"`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Weights != morph.Fade {
		t.Errorf("Expected fade preset, got %+v", cfg.Weights)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
