package visualizer

import (
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func testRenderer() *Renderer {
	cfg := DefaultConfig()
	cfg.HeightRatio = 1
	cfg.RiseSpeed = 0.4
	cfg.FallSpeed = 0.1
	r := NewRenderer(cfg)
	r.Resize(100, 100)
	return r
}

func TestTickZeroInputConvergesToFloor(t *testing.T) {
	r := testRenderer()
	r.Tick([]byte{255, 255, 255, 255}, 4)
	for range 1000 {
		r.Tick(make([]byte, 4), 4)
	}
	for i, h := range r.Heights() {
		if h != MinBarHeight {
			t.Fatalf("bar %d: expected floor %v, got %v", i, MinBarHeight, h)
		}
	}
	r.Tick(make([]byte, 4), 4)
	for i, h := range r.Heights() {
		if h != MinBarHeight {
			t.Fatalf("bar %d left the floor: %v", i, h)
		}
	}
}

func TestTickRiseFallAsymmetry(t *testing.T) {
	r := testRenderer()

	r.Tick([]byte{255}, 1)
	h := r.Heights()[0]
	if !approx(h, 40) {
		t.Fatalf("expected rise to 40 (riseSpeed of the 100 gap), got %v", h)
	}

	prev := h
	for frame := 0; frame < 5; frame++ {
		r.Tick([]byte{0}, 1)
		got := r.Heights()[0]
		want := prev + (0-prev)*0.1
		if want < MinBarHeight {
			want = MinBarHeight
		}
		if !approx(got, want) {
			t.Fatalf("frame %d: expected %v, got %v", frame, want, got)
		}
		if prev-got >= 40*0.4 {
			t.Fatalf("frame %d: decay %v not slower than attack", frame, prev-got)
		}
		prev = got
	}
}

func TestTickBarCountChangeResetsState(t *testing.T) {
	r := testRenderer()
	full := []byte{255, 255, 255, 255}

	r.Tick(full, 4)
	r.Tick(full, 2)
	got := r.Heights()
	if len(got) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(got))
	}
	for i, h := range got {
		if !approx(h, 40) {
			t.Fatalf("bar %d: expected rise from zero to 40, got %v", i, h)
		}
	}

	r.Tick(full, 8)
	if n := len(r.Heights()); n != 8 {
		t.Fatalf("expected 8 bars, got %d", n)
	}
}

func TestTickResizeResetsState(t *testing.T) {
	r := testRenderer()
	r.Tick([]byte{255}, 1)

	r.Resize(100, 100)
	r.Tick([]byte{0}, 1)
	if got := r.Heights()[0]; !approx(got, 36) {
		t.Fatalf("same-size resize should keep state, got %v", got)
	}

	r.Resize(200, 100)
	if got := r.Heights(); len(got) != 0 {
		t.Fatalf("expected state cleared on resize, got %v", got)
	}
	r.Tick([]byte{0}, 1)
	if got := r.Heights()[0]; got != MinBarHeight {
		t.Fatalf("expected floor after reset, got %v", got)
	}
}

func TestTickDisabledPreservesState(t *testing.T) {
	r := testRenderer()
	r.Tick([]byte{255, 255}, 2)
	before := r.Heights()

	cfg := r.Config()
	cfg.Enabled = false
	r.SetConfig(cfg)
	for range 50 {
		cmds := r.Tick([]byte{0, 0}, 2)
		if len(cmds) != 1 || cmds[0].Kind != CmdClear {
			t.Fatalf("expected single clear command, got %#v", cmds)
		}
	}
	after := r.Heights()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("bar %d changed while disabled: %v -> %v", i, before[i], after[i])
		}
	}

	cfg.Enabled = true
	r.SetConfig(cfg)
	r.Tick([]byte{0, 0}, 2)
	if got := r.Heights()[0]; !approx(got, 36) {
		t.Fatalf("expected smoothing to resume from 40, got %v", got)
	}
}

func TestTickMissingFrequencyDataIsSilence(t *testing.T) {
	r := testRenderer()
	cmds := r.Tick(nil, 3)
	if len(cmds) != 4 {
		t.Fatalf("expected clear plus 3 bars, got %d commands", len(cmds))
	}
	for i, h := range r.Heights() {
		if h != MinBarHeight {
			t.Fatalf("bar %d: expected floor, got %v", i, h)
		}
	}
}

func TestTickMapsBarsToSourceBins(t *testing.T) {
	r := testRenderer()
	freq := make([]byte, 8)
	freq[2] = 255
	r.Tick(freq, 4)

	got := r.Heights()
	want := []float64{MinBarHeight, 40, MinBarHeight, MinBarHeight}
	for i := range want {
		if !approx(got[i], want[i]) {
			t.Fatalf("heights = %v, want %v", got, want)
		}
	}
}

func TestTickGeometryAndHighlight(t *testing.T) {
	r := testRenderer()
	cmds := r.Tick([]byte{255, 0}, 2)

	// clear, bar 0, highlight 0, bar 1
	if len(cmds) != 4 {
		t.Fatalf("expected 4 commands, got %#v", cmds)
	}
	if cmds[0].Kind != CmdClear || cmds[0].Width != 100 || cmds[0].Height != 100 {
		t.Fatalf("unexpected clear command %#v", cmds[0])
	}
	bar := cmds[1]
	if bar.Kind != CmdBar || bar.X != 2 || bar.Width != 46 || !approx(bar.Y, 60) || !approx(bar.Height, 40) {
		t.Fatalf("unexpected bar geometry %#v", bar)
	}
	if cmds[2].Kind != CmdHighlight || cmds[2].Height != highlightHeight || cmds[2].Y != bar.Y {
		t.Fatalf("unexpected highlight %#v", cmds[2])
	}
	if cmds[3].Kind != CmdBar || cmds[3].X != 52 {
		t.Fatalf("unexpected second bar %#v", cmds[3])
	}
}

func TestTickPanicsOnInvalidBarCount(t *testing.T) {
	for _, n := range []int{0, -3} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic for bar count %d", n)
				}
			}()
			testRenderer().Tick([]byte{1}, n)
		}()
	}
}

func TestTickHeightRatioScalesTarget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HeightRatio = 0.5
	cfg.RiseSpeed = 1
	r := NewRenderer(cfg)
	r.Resize(100, 100)
	r.Tick([]byte{255}, 1)
	if got := r.Heights()[0]; !approx(got, 50) {
		t.Fatalf("expected full-energy bar at half height, got %v", got)
	}
}
