// morph-demo flushes a handful of logical frames through a morphing terminal
// backend: recolors, slides, and appearing/vanishing text.
//
// Usage: morph-demo [-config path/to/morph.toml] [-preset liquid|crisp|fade]
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/morph"
	"github.com/lixenwraith/morph/config"
	"github.com/lixenwraith/morph/terminal"
)

func main() {
	configPath := flag.String("config", "", "TOML morph configuration")
	preset := flag.String("preset", "", "weight preset override (liquid, crisp, fade)")
	flag.Parse()

	cfg := morph.DefaultConfig()
	cfg.Transition = 450 * time.Millisecond
	cfg.Ticks = 24

	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "morph-demo:", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	switch *preset {
	case "":
	case "liquid":
		cfg.Weights = morph.Liquid
	case "crisp":
		cfg.Weights = morph.Crisp
	case "fade":
		cfg.Weights = morph.Fade
	default:
		fmt.Fprintf(os.Stderr, "morph-demo: unknown preset %q\n", *preset)
		os.Exit(1)
	}
	cfg.Mode = morph.ModeBlocking

	term := terminal.New()
	if err := term.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "morph-demo: terminal init:", err)
		os.Exit(1)
	}
	defer term.Fini()

	m, err := morph.Wrap(term, cfg)
	if err != nil {
		term.Fini()
		fmt.Fprintln(os.Stderr, "morph-demo:", err)
		os.Exit(1)
	}

	if err := run(m); err != nil {
		term.Fini()
		fmt.Fprintln(os.Stderr, "morph-demo:", err)
		os.Exit(1)
	}
}

type scene struct {
	hold  time.Duration
	paint func(m *morph.Morpher, w, h int)
}

func run(m *morph.Morpher) error {
	w, h := m.Size()
	m.SetCursorVisible(false)

	scenes := []scene{
		{800 * time.Millisecond, func(m *morph.Morpher, w, h int) {
			writeText(m, (w-10)/2, h/2, "morph demo", terminal.ColorBrightWhite)
		}},
		{800 * time.Millisecond, func(m *morph.Morpher, w, h int) {
			writeText(m, (w-10)/2, h/2, "morph demo", terminal.NewColor(255, 80, 80))
		}},
		{800 * time.Millisecond, func(m *morph.Morpher, w, h int) {
			writeText(m, 2, 1, "morph demo", terminal.NewColor(255, 80, 80))
		}},
		{800 * time.Millisecond, func(m *morph.Morpher, w, h int) {
			writeText(m, 2, 1, "morph demo", terminal.NewColor(255, 80, 80))
			writeText(m, w-12, h-2, "glides", terminal.NewColor(100, 150, 255))
		}},
		{800 * time.Millisecond, func(m *morph.Morpher, w, h int) {
			writeText(m, 2, h-2, "glides", terminal.NewColor(100, 150, 255))
		}},
		{1200 * time.Millisecond, func(m *morph.Morpher, w, h int) {
			writeText(m, (w-7)/2, h/2, "goodbye", terminal.ColorBrightGreen)
		}},
	}

	for _, s := range scenes {
		blank(m, w, h)
		s.paint(m, w, h)
		if err := m.Flush(); err != nil {
			return err
		}
		time.Sleep(s.hold)
	}

	blank(m, w, h)
	return m.Flush()
}

func blank(m *morph.Morpher, w, h int) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetCell(x, y, terminal.Cell{Glyph: " "})
		}
	}
}

func writeText(m *morph.Morpher, x, y int, s string, fg terminal.Color) {
	for i, r := range s {
		m.SetCell(x+i, y, terminal.Cell{Glyph: string(r), Fg: fg})
	}
}
