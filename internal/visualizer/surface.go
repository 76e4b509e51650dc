package visualizer

import (
	"math"
	"strings"
)

// Terminal cell size in drawing units. A column is four units wide so the
// bar gap maps to one column; a row is eight units tall to match the eighth
// block glyphs.
const (
	UnitsPerCol = 4.0
	UnitsPerRow = 8.0
)

var barChars = []rune(" ▁▂▃▄▅▆▇█")

type cell struct {
	level int // filled eighths, from the bottom
	color RGBA
}

// Surface rasterizes draw commands onto a grid of terminal cells.
type Surface struct {
	cols, rows int
	cells      []cell
	profile    colorProfile
}

// NewSurface creates a surface of cols x rows cells.
func NewSurface(cols, rows int) *Surface {
	s := &Surface{profile: currentColorProfile()}
	s.Resize(cols, rows)
	return s
}

// Resize changes the grid size and clears it.
func (s *Surface) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	s.cols, s.rows = cols, rows
	s.cells = make([]cell, cols*rows)
}

// Dims returns the grid size in cells.
func (s *Surface) Dims() (cols, rows int) { return s.cols, s.rows }

// Size returns the grid size in drawing units.
func (s *Surface) Size() (width, height float64) {
	return float64(s.cols) * UnitsPerCol, float64(s.rows) * UnitsPerRow
}

// Draw applies commands in order.
func (s *Surface) Draw(cmds []Command) {
	for _, c := range cmds {
		switch c.Kind {
		case CmdClear:
			for i := range s.cells {
				s.cells[i] = cell{}
			}
		case CmdBar:
			s.fillBar(c)
		case CmdHighlight:
			s.highlight(c)
		}
	}
}

// columns returns the cell columns whose centre lies inside [x, x+w).
func (s *Surface) columns(x, w float64) (lo, hi int) {
	lo = int(math.Ceil(x/UnitsPerCol - 0.5))
	hi = int(math.Ceil((x+w)/UnitsPerCol - 0.5))
	if lo < 0 {
		lo = 0
	}
	if hi > s.cols {
		hi = s.cols
	}
	return lo, hi
}

func (s *Surface) fillBar(c Command) {
	lo, hi := s.columns(c.X, c.Width)
	top := c.Y
	bottom := c.Y + c.Height
	color := c.Fill.Over(Background)
	for row := 0; row < s.rows; row++ {
		cellTop := float64(row) * UnitsPerRow
		cellBottom := cellTop + UnitsPerRow
		overlap := math.Min(bottom, cellBottom) - math.Max(top, cellTop)
		if overlap <= 0 {
			continue
		}
		level := int(math.Round(overlap / UnitsPerRow * 8))
		if level == 0 {
			level = 1
		}
		for col := lo; col < hi; col++ {
			s.cells[row*s.cols+col] = cell{level: level, color: color}
		}
	}
}

func (s *Surface) highlight(c Command) {
	lo, hi := s.columns(c.X, c.Width)
	row := int(c.Y / UnitsPerRow)
	if row < 0 || row >= s.rows {
		return
	}
	tint := c.Fill
	tint.A /= 2
	for col := lo; col < hi; col++ {
		cl := &s.cells[row*s.cols+col]
		if cl.level == 0 {
			continue
		}
		cl.color = tint.Over(cl.color)
	}
}

// Level returns the number of filled eighths of a cell, for tests and
// debugging.
func (s *Surface) Level(col, row int) int {
	if col < 0 || col >= s.cols || row < 0 || row >= s.rows {
		return 0
	}
	return s.cells[row*s.cols+col].level
}

// Render returns the grid as text with ANSI colours for the terminal profile.
func (s *Surface) Render() string {
	var sb strings.Builder
	sb.Grow(s.cols * s.rows * 4)
	for row := 0; row < s.rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		w := newANSIWriter(s.profile)
		for col := 0; col < s.cols; col++ {
			cl := s.cells[row*s.cols+col]
			if cl.level == 0 {
				w.reset(&sb)
				sb.WriteByte(' ')
				continue
			}
			w.set(&sb, cl.color)
			sb.WriteRune(barChars[cl.level])
		}
		w.reset(&sb)
	}
	return sb.String()
}
