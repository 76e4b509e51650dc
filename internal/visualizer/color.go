package visualizer

import (
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// BarColor maps a bar position and its normalized energy to a fill colour.
// The result depends only on its arguments.
func BarColor(i, n int, energy float64, palette string) RGBA {
	energy = clamp01(energy)
	if n < 1 {
		n = 1
	}
	if palette != PaletteRainbow {
		if c, err := colorful.Hex(palette); err == nil {
			r, g, b := c.RGB255()
			return RGBA{R: r, G: g, B: b, A: 0.65 + 0.35*energy}
		}
	}

	hue := float64(i) / float64(n) * 360
	sat := (80 + energy*20) / 100
	light := (40 + energy*30) / 100
	r, g, b := colorful.Hsl(hue, sat, light).Clamped().RGB255()
	return RGBA{R: r, G: g, B: b, A: 0.8}
}

// Hex returns the colour as #rrggbb, ignoring alpha.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Over composites c onto an opaque background.
func (c RGBA) Over(bg RGBA) RGBA {
	a := clamp01(c.A)
	mix := func(fg, bg uint8) uint8 {
		return uint8(math.Round(float64(fg)*a + float64(bg)*(1-a)))
	}
	return RGBA{R: mix(c.R, bg.R), G: mix(c.G, bg.G), B: mix(c.B, bg.B), A: 1}
}

type colorProfile uint8

const (
	colorNone colorProfile = iota
	colorANSI16
	colorANSI256
	colorTrueColor
)

var (
	profileOnce sync.Once
	profile     colorProfile
	seqCache    sync.Map
)

func currentColorProfile() colorProfile {
	profileOnce.Do(func() {
		profile = detectColorProfile(os.LookupEnv)
	})
	return profile
}

func detectColorProfile(lookup func(string) (string, bool)) colorProfile {
	if _, disabled := lookup("NO_COLOR"); disabled {
		return colorNone
	}
	term, _ := lookup("TERM")
	colorTerm, _ := lookup("COLORTERM")
	term = strings.ToLower(term)
	colorTerm = strings.ToLower(colorTerm)
	switch {
	case strings.Contains(colorTerm, "truecolor"), strings.Contains(colorTerm, "24bit"):
		return colorTrueColor
	case strings.Contains(term, "256color"):
		return colorANSI256
	case term == "", term == "dumb":
		return colorNone
	default:
		return colorANSI16
	}
}

// ansiWriter emits foreground colour changes only when the colour differs
// from the previous cell.
type ansiWriter struct {
	profile colorProfile
	current uint32
}

func newANSIWriter(p colorProfile) ansiWriter {
	return ansiWriter{profile: p, current: ^uint32(0)}
}

func (w *ansiWriter) set(sb *strings.Builder, c RGBA) {
	if w.profile == colorNone {
		return
	}
	key := uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	if key == w.current {
		return
	}
	sb.WriteString(colorSequence(w.profile, c))
	w.current = key
}

func (w *ansiWriter) reset(sb *strings.Builder) {
	if w.profile == colorNone || w.current == ^uint32(0) {
		return
	}
	sb.WriteString("\x1b[0m")
	w.current = ^uint32(0)
}

var ansi16Palette = []RGBA{
	{R: 0, G: 0, B: 0},
	{R: 205, G: 49, B: 49},
	{R: 13, G: 188, B: 121},
	{R: 229, G: 229, B: 16},
	{R: 36, G: 114, B: 200},
	{R: 188, G: 63, B: 188},
	{R: 17, G: 168, B: 205},
	{R: 229, G: 229, B: 229},
}

func colorSequence(p colorProfile, c RGBA) string {
	key := uint32(p)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	if seq, ok := seqCache.Load(key); ok {
		return seq.(string)
	}

	var seq string
	switch p {
	case colorTrueColor:
		seq = fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B)
	case colorANSI256:
		r := int(c.R) * 5 / 255
		g := int(c.G) * 5 / 255
		b := int(c.B) * 5 / 255
		seq = fmt.Sprintf("\x1b[38;5;%dm", 16+36*r+6*g+b)
	case colorANSI16:
		best := 0
		bestDist := math.MaxFloat64
		for i, pc := range ansi16Palette {
			dr := float64(c.R) - float64(pc.R)
			dg := float64(c.G) - float64(pc.G)
			db := float64(c.B) - float64(pc.B)
			if d := dr*dr + dg*dg + db*db; d < bestDist {
				bestDist = d
				best = i
			}
		}
		seq = fmt.Sprintf("\x1b[%dm", 30+best)
	}

	seqCache.Store(key, seq)
	return seq
}
