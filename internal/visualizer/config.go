package visualizer

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// PaletteRainbow sweeps the hue across bar positions.
	PaletteRainbow = "rainbow"

	minFFTSize = 32
	maxFFTSize = 32768
	maxBars    = 512
)

// Config holds the user-tunable visualizer settings.
type Config struct {
	Enabled     bool
	HeightRatio float64 // share of the surface height used by bars, 0..1
	RiseSpeed   float64 // attack coefficient, 0..1
	FallSpeed   float64 // release coefficient, 0..1
	FFTSize     int     // power of two
	BarCount    int
	Color       string // PaletteRainbow or a #rrggbb colour
}

// DefaultConfig returns the settings used when nothing has been persisted.
func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		HeightRatio: 0.3,
		RiseSpeed:   0.4,
		FallSpeed:   0.1,
		FFTSize:     256,
		BarCount:    64,
		Color:       PaletteRainbow,
	}
}

// Normalize clamps ratios to [0,1] and replaces invalid fields with defaults.
func (c Config) Normalize() Config {
	def := DefaultConfig()
	c.HeightRatio = clamp01(c.HeightRatio)
	c.RiseSpeed = clamp01(c.RiseSpeed)
	c.FallSpeed = clamp01(c.FallSpeed)
	if !ValidFFTSize(c.FFTSize) {
		c.FFTSize = def.FFTSize
	}
	if c.BarCount < 1 || c.BarCount > maxBars {
		c.BarCount = def.BarCount
	}
	c.Color = strings.ToLower(strings.TrimSpace(c.Color))
	if c.Color != PaletteRainbow {
		if _, err := colorful.Hex(c.Color); err != nil {
			c.Color = def.Color
		}
	}
	return c
}

// ValidFFTSize reports whether n is a power of two in the supported range.
func ValidFFTSize(n int) bool {
	return n >= minFFTSize && n <= maxFFTSize && n&(n-1) == 0
}

func clamp01(v float64) float64 {
	if v != v || v < 0 { // NaN or negative
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
