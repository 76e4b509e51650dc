package visualizer

import "testing"

func TestBarColorIsDeterministic(t *testing.T) {
	a := BarColor(5, 64, 0.7, PaletteRainbow)
	b := BarColor(5, 64, 0.7, PaletteRainbow)
	if a != b {
		t.Fatalf("expected identical colours, got %#v and %#v", a, b)
	}
}

func TestBarColorRainbowSweepsHue(t *testing.T) {
	first := BarColor(0, 3, 0, PaletteRainbow)
	if first.R <= first.G || first.R <= first.B {
		t.Fatalf("expected red-dominant first bar, got %#v", first)
	}
	second := BarColor(1, 3, 0, PaletteRainbow)
	if second.G <= second.R || second.G <= second.B {
		t.Fatalf("expected green-dominant second bar, got %#v", second)
	}
	if first.A != 0.8 {
		t.Fatalf("expected alpha 0.8, got %v", first.A)
	}
}

func TestBarColorEnergyBrightens(t *testing.T) {
	quiet := BarColor(0, 8, 0, PaletteRainbow)
	loud := BarColor(0, 8, 1, PaletteRainbow)
	if int(loud.G)+int(loud.B) <= int(quiet.G)+int(quiet.B) {
		t.Fatalf("expected louder bar to be lighter: quiet %#v loud %#v", quiet, loud)
	}
}

func TestBarColorSolidPalette(t *testing.T) {
	c := BarColor(3, 8, 1, "#ffcc00")
	if c.R != 0xff || c.G != 0xcc || c.B != 0 {
		t.Fatalf("unexpected solid colour %#v", c)
	}
	if !approx(c.A, 1) {
		t.Fatalf("expected full alpha at full energy, got %v", c.A)
	}
	if got := BarColor(3, 8, 0, "#ffcc00").A; got != 0.65 {
		t.Fatalf("expected alpha 0.65 at zero energy, got %v", got)
	}
}

func TestOverCompositesOnBackground(t *testing.T) {
	c := RGBA{R: 255, G: 255, B: 255, A: 0.5}.Over(RGBA{R: 0, G: 0, B: 0, A: 1})
	if c.R != 128 || c.G != 128 || c.B != 128 {
		t.Fatalf("unexpected blend %#v", c)
	}
}

func TestDetectColorProfile(t *testing.T) {
	env := func(vars map[string]string) func(string) (string, bool) {
		return func(k string) (string, bool) {
			v, ok := vars[k]
			return v, ok
		}
	}
	tests := []struct {
		vars map[string]string
		want colorProfile
	}{
		{map[string]string{"NO_COLOR": "", "COLORTERM": "truecolor"}, colorNone},
		{map[string]string{"COLORTERM": "truecolor", "TERM": "xterm"}, colorTrueColor},
		{map[string]string{"TERM": "xterm-256color"}, colorANSI256},
		{map[string]string{"TERM": "dumb"}, colorNone},
		{map[string]string{"TERM": "xterm"}, colorANSI16},
	}
	for _, tt := range tests {
		if got := detectColorProfile(env(tt.vars)); got != tt.want {
			t.Errorf("detectColorProfile(%v) = %d, want %d", tt.vars, got, tt.want)
		}
	}
}

func TestConfigNormalize(t *testing.T) {
	cfg := Config{
		Enabled:     true,
		HeightRatio: 1.5,
		RiseSpeed:   -1,
		FallSpeed:   0.2,
		FFTSize:     300,
		BarCount:    0,
		Color:       " #FFCC00 ",
	}.Normalize()

	if cfg.HeightRatio != 1 || cfg.RiseSpeed != 0 || cfg.FallSpeed != 0.2 {
		t.Fatalf("unexpected clamped ratios %#v", cfg)
	}
	if cfg.FFTSize != 256 || cfg.BarCount != 64 {
		t.Fatalf("expected defaults for invalid sizes, got %#v", cfg)
	}
	if cfg.Color != "#ffcc00" {
		t.Fatalf("expected normalized colour, got %q", cfg.Color)
	}

	if got := (Config{Color: "chartreuse-ish"}).Normalize().Color; got != PaletteRainbow {
		t.Fatalf("expected invalid colour to fall back to rainbow, got %q", got)
	}
}

func TestValidFFTSize(t *testing.T) {
	for _, n := range []int{32, 256, 2048, 32768} {
		if !ValidFFTSize(n) {
			t.Errorf("expected %d to be valid", n)
		}
	}
	for _, n := range []int{0, 16, 100, 65536} {
		if ValidFFTSize(n) {
			t.Errorf("expected %d to be invalid", n)
		}
	}
}
