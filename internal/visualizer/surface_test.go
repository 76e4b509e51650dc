package visualizer

import (
	"strings"
	"testing"
)

func plainSurface(cols, rows int) *Surface {
	s := NewSurface(cols, rows)
	s.profile = colorNone
	return s
}

func TestSurfaceDrawsBarsFromBottom(t *testing.T) {
	s := plainSurface(4, 2)
	s.Draw([]Command{
		{Kind: CmdClear, Width: 16, Height: 16, Fill: Background},
		{Kind: CmdBar, X: 2, Y: 4, Width: 4, Height: 12, Fill: RGBA{R: 255, A: 1}},
	})

	if got := s.Level(0, 1); got != 8 {
		t.Fatalf("expected full bottom cell, got level %d", got)
	}
	if got := s.Level(0, 0); got != 4 {
		t.Fatalf("expected half top cell, got level %d", got)
	}
	if got := s.Level(1, 1); got != 0 {
		t.Fatalf("expected gap column empty, got level %d", got)
	}

	want := "▄   \n█   "
	if got := s.Render(); got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestSurfaceClearResetsCells(t *testing.T) {
	s := plainSurface(2, 1)
	s.Draw([]Command{{Kind: CmdBar, X: 0, Y: 0, Width: 8, Height: 8, Fill: RGBA{G: 255, A: 1}}})
	s.Draw([]Command{{Kind: CmdClear}})
	if got := s.Render(); got != "  " {
		t.Fatalf("expected blank surface, got %q", got)
	}
}

func TestSurfaceRendersRendererOutput(t *testing.T) {
	s := plainSurface(20, 4)
	w, h := s.Size()
	cfg := DefaultConfig()
	cfg.HeightRatio = 1
	cfg.RiseSpeed = 1
	r := NewRenderer(cfg)
	r.Resize(w, h)

	s.Draw(r.Tick([]byte{255, 0, 255, 0, 255, 0, 255, 0, 255, 0}, 10))
	rows := strings.Split(s.Render(), "\n")
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if !strings.ContainsRune(rows[0], '█') {
		t.Fatalf("expected loud bars to reach the top row, got %q", rows[0])
	}
	if s.Level(2, 3) == 0 {
		t.Fatal("expected quiet bar to keep its minimum height")
	}
}

func TestSurfaceHighlightTintsTopCell(t *testing.T) {
	s := plainSurface(1, 2)
	bar := Command{Kind: CmdBar, X: 0, Y: 4, Width: 4, Height: 12, Fill: RGBA{R: 100, G: 0, B: 0, A: 1}}
	s.Draw([]Command{bar})
	before := s.cells[0].color
	s.Draw([]Command{{Kind: CmdHighlight, X: 0, Y: 4, Width: 4, Height: 4, Fill: highlightFill}})
	after := s.cells[0].color
	if after.G <= before.G {
		t.Fatalf("expected highlight to lighten the top cell: %#v -> %#v", before, after)
	}
	if s.cells[1].color != before {
		t.Fatalf("expected lower cell untouched, got %#v", s.cells[1].color)
	}
}
