package visualizer

// FrequencySource supplies byte frequency magnitudes, one snapshot per frame.
// ByteFrequencyData fills dst (reallocating when too small) and returns the
// filled slice.
type FrequencySource interface {
	ByteFrequencyData(dst []byte) []byte
}

// CommandKind identifies a draw command.
type CommandKind uint8

const (
	CmdClear CommandKind = iota
	CmdBar
	CmdHighlight
)

// RGBA is a colour with a straight (non-premultiplied) alpha in [0,1].
type RGBA struct {
	R, G, B uint8
	A       float64
}

// Command is a single rectangle fill on the drawing surface. Coordinates have
// their origin at the top-left corner.
type Command struct {
	Kind   CommandKind
	X, Y   float64
	Width  float64
	Height float64
	Fill   RGBA
}

// Background is the fill used by clear commands.
var Background = RGBA{R: 10, G: 10, B: 15, A: 1}
