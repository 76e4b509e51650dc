package settings

import (
	"errors"
	"math"
	"strconv"

	"github.com/olivier-w/lrcplay/internal/visualizer"
)

// Keys under which preferences are stored.
const (
	KeyVisualizerEnabled = "visualizerEnabled"
	KeyHeightRatio       = "visualizerHeightRatio"
	KeyRiseSpeed         = "riseSpeed"
	KeyFallSpeed         = "fallSpeed"
	KeyFFTSize           = "fftSize"
	KeyBarCount          = "barCount"
	KeyColor             = "visualizerColor"
	KeyVolume            = "volume"
)

// DefaultVolume is used when no volume has been saved.
const DefaultVolume = 0.8

// LoadVisualizerConfig reads the visualizer settings. Missing or unparsable
// values keep their defaults.
func LoadVisualizerConfig(s Store) (visualizer.Config, error) {
	cfg := visualizer.DefaultConfig()
	r := reader{store: s}
	r.bool(KeyVisualizerEnabled, &cfg.Enabled)
	r.float(KeyHeightRatio, &cfg.HeightRatio)
	r.float(KeyRiseSpeed, &cfg.RiseSpeed)
	r.float(KeyFallSpeed, &cfg.FallSpeed)
	r.int(KeyFFTSize, &cfg.FFTSize)
	r.int(KeyBarCount, &cfg.BarCount)
	if v, ok := r.get(KeyColor); ok {
		cfg.Color = v
	}
	return cfg.Normalize(), r.err
}

// SaveVisualizerConfig writes every visualizer field.
func SaveVisualizerConfig(s Store, cfg visualizer.Config) error {
	pairs := [][2]string{
		{KeyVisualizerEnabled, strconv.FormatBool(cfg.Enabled)},
		{KeyHeightRatio, formatFloat(cfg.HeightRatio)},
		{KeyRiseSpeed, formatFloat(cfg.RiseSpeed)},
		{KeyFallSpeed, formatFloat(cfg.FallSpeed)},
		{KeyFFTSize, strconv.Itoa(cfg.FFTSize)},
		{KeyBarCount, strconv.Itoa(cfg.BarCount)},
		{KeyColor, cfg.Color},
	}
	var errs []error
	for _, kv := range pairs {
		if err := s.Set(kv[0], kv[1]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadVolume returns the saved volume clamped to 0..1.
func LoadVolume(s Store) (float64, error) {
	v := DefaultVolume
	r := reader{store: s}
	r.float(KeyVolume, &v)
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return v, r.err
}

// SaveVolume stores the playback volume.
func SaveVolume(s Store, v float64) error {
	return s.Set(KeyVolume, formatFloat(v))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// reader collects the first store error and leaves fields untouched when a
// value is missing or malformed.
type reader struct {
	store Store
	err   error
}

func (r *reader) get(key string) (string, bool) {
	v, ok, err := r.store.Get(key)
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return "", false
	}
	return v, ok
}

func (r *reader) bool(key string, dst *bool) {
	if v, ok := r.get(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func (r *reader) float(key string, dst *float64) {
	if v, ok := r.get(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			*dst = f
		}
	}
}

func (r *reader) int(key string, dst *int) {
	if v, ok := r.get(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
