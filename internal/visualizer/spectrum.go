package visualizer

import "math"

const (
	// responseCurve shapes normalized energy before scaling; >1 suppresses
	// low-level noise and accentuates peaks.
	responseCurve = 1.2

	// MinBarHeight keeps bars visible while they decay.
	MinBarHeight = 2.0

	// HighlightThreshold is the bar height above which a cap is drawn.
	HighlightThreshold = 8.0

	highlightHeight = 4.0
	barGap          = 4.0
)

var highlightFill = RGBA{R: 255, G: 255, B: 255, A: 0.8}

// Renderer turns frequency snapshots into smoothed bar draw commands.
// It keeps one height per bar across frames and is not safe for concurrent
// use; the host calls Tick from a single frame loop.
type Renderer struct {
	cfg     Config
	width   float64
	height  float64
	heights []float64
}

// NewRenderer creates a renderer with the given settings.
func NewRenderer(cfg Config) *Renderer {
	return &Renderer{cfg: cfg.Normalize()}
}

// Config returns the active settings.
func (r *Renderer) Config() Config { return r.cfg }

// SetConfig replaces the settings. Bar heights are kept; a different bar
// count takes effect on the next Tick.
func (r *Renderer) SetConfig(cfg Config) {
	r.cfg = cfg.Normalize()
}

// Resize sets the surface size. Any change discards the bar heights.
func (r *Renderer) Resize(width, height float64) {
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	r.heights = nil
}

// Size returns the current surface size.
func (r *Renderer) Size() (width, height float64) { return r.width, r.height }

// Heights returns a copy of the current bar heights.
func (r *Renderer) Heights() []float64 {
	out := make([]float64, len(r.heights))
	copy(out, r.heights)
	return out
}

// Tick advances the bar animation by one frame. freq may be nil or empty, in
// which case every bar decays toward zero energy. When the visualizer is
// disabled only a clear command is produced and bar heights are preserved.
// Tick panics if barCount is less than 1.
func (r *Renderer) Tick(freq []byte, barCount int) []Command {
	if barCount < 1 {
		panic("visualizer: bar count must be positive")
	}

	bg := Command{Kind: CmdClear, Width: r.width, Height: r.height, Fill: Background}
	if !r.cfg.Enabled {
		return []Command{bg}
	}

	if len(r.heights) != barCount {
		r.heights = make([]float64, barCount)
	}

	drawHeight := r.height * r.cfg.HeightRatio
	barWidth := r.width/float64(barCount) - barGap
	if barWidth < 1 {
		barWidth = 1
	}

	cmds := make([]Command, 0, 1+barCount*2)
	cmds = append(cmds, bg)
	for i := range barCount {
		energy := 0.0
		if len(freq) > 0 {
			energy = float64(freq[i*len(freq)/barCount]) / 255
		}
		target := math.Pow(energy, responseCurve) * drawHeight

		cur := r.heights[i]
		if target > cur {
			cur += (target - cur) * r.cfg.RiseSpeed
		} else {
			cur += (target - cur) * r.cfg.FallSpeed
		}
		if cur < MinBarHeight {
			cur = MinBarHeight
		}
		r.heights[i] = cur

		x := float64(i)*(barWidth+barGap) + barGap/2
		y := r.height - cur
		cmds = append(cmds, Command{
			Kind:   CmdBar,
			X:      x,
			Y:      y,
			Width:  barWidth,
			Height: cur,
			Fill:   BarColor(i, barCount, energy, r.cfg.Color),
		})
		if cur > HighlightThreshold {
			cmds = append(cmds, Command{
				Kind:   CmdHighlight,
				X:      x,
				Y:      y,
				Width:  barWidth,
				Height: highlightHeight,
				Fill:   highlightFill,
			})
		}
	}
	return cmds
}
