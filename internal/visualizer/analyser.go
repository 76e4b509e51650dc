package visualizer

import (
	"math"
	"sync/atomic"
)

const (
	minDecibels     = -100.0
	maxDecibels     = -30.0
	smoothingFactor = 0.8
)

// Analyser turns the PCM stream written by the player into byte frequency
// magnitudes. Write may be called from the audio goroutine; the remaining
// methods belong to the frame loop.
type Analyser struct {
	ring     *sampleRing
	fftSize  int
	window   []float64
	re, im   []float64
	smoothed []float64
	closed   atomic.Bool
}

// NewAnalyser creates an analyser for interleaved 16-bit PCM with the given
// channel count. fftSize must be a power of two; invalid sizes fall back to
// the default.
func NewAnalyser(fftSize, channels int) *Analyser {
	a := &Analyser{ring: newSampleRing(0, channels)}
	a.SetFFTSize(fftSize)
	return a
}

// FFTSize returns the analysis window length.
func (a *Analyser) FFTSize() int { return a.fftSize }

// BinCount returns the number of frequency bins, half the FFT size.
func (a *Analyser) BinCount() int { return a.fftSize / 2 }

// SetFFTSize changes the analysis window and discards buffered audio.
func (a *Analyser) SetFFTSize(n int) {
	if !ValidFFTSize(n) {
		n = DefaultConfig().FFTSize
	}
	if n == a.fftSize {
		return
	}
	a.fftSize = n
	a.window = blackmanWindow(n)
	a.re = make([]float64, n)
	a.im = make([]float64, n)
	a.smoothed = make([]float64, n/2)
	a.ring.Resize(n)
}

// Write feeds PCM into the analyser. It never fails.
func (a *Analyser) Write(p []byte) (int, error) {
	if a.closed.Load() {
		return len(p), nil
	}
	return a.ring.Write(p)
}

// Reset discards buffered audio and smoothing history, e.g. after a seek.
func (a *Analyser) Reset() {
	a.ring.Clear()
	for i := range a.smoothed {
		a.smoothed[i] = 0
	}
}

// ByteFrequencyData computes the current spectrum, mapping
// [minDecibels, maxDecibels] onto 0..255. After Close it returns zeros.
func (a *Analyser) ByteFrequencyData(dst []byte) []byte {
	bins := a.fftSize / 2
	if cap(dst) < bins {
		dst = make([]byte, bins)
	}
	dst = dst[:bins]
	if a.closed.Load() {
		for i := range dst {
			dst[i] = 0
		}
		return dst
	}

	a.ring.Latest(a.re)
	for i := range a.re {
		a.re[i] *= a.window[i]
		a.im[i] = 0
	}
	fft(a.re, a.im)

	scale := 1.0 / float64(a.fftSize)
	rangeScale := 255 / (maxDecibels - minDecibels)
	for k := 0; k < bins; k++ {
		mag := math.Hypot(a.re[k], a.im[k]) * scale
		s := smoothingFactor*a.smoothed[k] + (1-smoothingFactor)*mag
		if math.IsNaN(s) || math.IsInf(s, 0) {
			s = 0
		}
		a.smoothed[k] = s

		v := 0.0
		if s > 0 {
			db := 20 * math.Log10(s)
			v = math.Floor(rangeScale * (db - minDecibels))
		}
		switch {
		case v < 0:
			dst[k] = 0
		case v > 255:
			dst[k] = 255
		default:
			dst[k] = byte(v)
		}
	}
	return dst
}

// Close releases the analysis buffers. Further writes are dropped.
func (a *Analyser) Close() error {
	a.closed.Store(true)
	a.ring.Resize(0)
	return nil
}
