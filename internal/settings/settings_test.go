package settings

import (
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/olivier-w/lrcplay/internal/visualizer"
)

var quiet = log.New(io.Discard, "", 0)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "settings.db"), quiet)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return map[string]Store{"sqlite": db, "memory": NewMemory()}
}

func TestStoreGetSet(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := s.Get("missing"); ok || err != nil {
				t.Fatalf("Get(missing) = ok %v err %v", ok, err)
			}
			if err := s.Set("k", "one"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := s.Set("k", "two"); err != nil {
				t.Fatalf("Set() overwrite error = %v", err)
			}
			v, ok, err := s.Get("k")
			if err != nil || !ok || v != "two" {
				t.Fatalf("Get(k) = %q %v %v, want two", v, ok, err)
			}
		})
	}
}

func TestVisualizerConfigRoundTrip(t *testing.T) {
	want := visualizer.Config{
		Enabled:     false,
		HeightRatio: 0.55,
		RiseSpeed:   0.25,
		FallSpeed:   0.05,
		FFTSize:     2048,
		BarCount:    32,
		Color:       "#33aaff",
	}
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := SaveVisualizerConfig(s, want); err != nil {
				t.Fatalf("SaveVisualizerConfig() error = %v", err)
			}
			got, err := LoadVisualizerConfig(s)
			if err != nil {
				t.Fatalf("LoadVisualizerConfig() error = %v", err)
			}
			if got != want {
				t.Fatalf("round trip = %#v, want %#v", got, want)
			}
		})
	}
}

func TestLoadVisualizerConfigDefaults(t *testing.T) {
	s := NewMemory()
	s.Set(KeyRiseSpeed, "fast")
	s.Set(KeyFFTSize, "1000")
	s.Set(KeyBarCount, "16")

	got, err := LoadVisualizerConfig(s)
	if err != nil {
		t.Fatalf("LoadVisualizerConfig() error = %v", err)
	}
	want := visualizer.DefaultConfig()
	want.BarCount = 16
	if got != want {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestVolume(t *testing.T) {
	s := NewMemory()
	if v, _ := LoadVolume(s); v != DefaultVolume {
		t.Fatalf("expected default volume, got %v", v)
	}
	SaveVolume(s, 0.35)
	if v, _ := LoadVolume(s); v != 0.35 {
		t.Fatalf("expected saved volume, got %v", v)
	}
	s.Set(KeyVolume, "7")
	if v, _ := LoadVolume(s); v != 1 {
		t.Fatalf("expected clamped volume, got %v", v)
	}
	for _, bad := range []string{"NaN", "+Inf", "-Inf"} {
		s.Set(KeyVolume, bad)
		if v, _ := LoadVolume(s); v != DefaultVolume {
			t.Fatalf("volume %q: expected default, got %v", bad, v)
		}
	}
}

func TestLoadVisualizerConfigRejectsNonFinite(t *testing.T) {
	s := NewMemory()
	s.Set(KeyRiseSpeed, "NaN")
	s.Set(KeyHeightRatio, "Inf")
	cfg, err := LoadVisualizerConfig(s)
	if err != nil {
		t.Fatalf("LoadVisualizerConfig() error = %v", err)
	}
	def := visualizer.DefaultConfig()
	if cfg.RiseSpeed != def.RiseSpeed || cfg.HeightRatio != def.HeightRatio {
		t.Fatalf("expected defaults for non-finite values, got %#v", cfg)
	}
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")
	s, err := OpenSQLite(path, quiet)
	if err != nil {
		t.Fatal(err)
	}
	s.Set(KeyColor, "#112233")
	s.Close()

	s, err = OpenSQLite(path, quiet)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if v, ok, _ := s.Get(KeyColor); !ok || v != "#112233" {
		t.Fatalf("expected persisted colour, got %q %v", v, ok)
	}
}
