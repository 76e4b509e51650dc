package visualizer

import (
	"encoding/binary"
	"sync"
)

// sampleRing is a thread-safe circular buffer of mono samples fed with
// interleaved 16-bit little-endian PCM.
type sampleRing struct {
	mu       sync.Mutex
	buf      []float64
	w        int // write position
	len      int // current fill level
	channels int
	partial  []byte // incomplete frame carried between writes
}

func newSampleRing(size, channels int) *sampleRing {
	if channels < 1 {
		channels = 1
	}
	return &sampleRing{buf: make([]float64, size), channels: channels}
}

// Write mixes PCM frames down to mono and appends them, overwriting the
// oldest samples when full. It never fails.
func (r *sampleRing) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(p)
	if len(r.buf) == 0 {
		return n, nil
	}
	frameSize := r.channels * 2
	if len(r.partial) > 0 {
		need := frameSize - len(r.partial)
		if need > len(p) {
			r.partial = append(r.partial, p...)
			return n, nil
		}
		r.partial = append(r.partial, p[:need]...)
		r.push(r.partial)
		r.partial = r.partial[:0]
		p = p[need:]
	}
	for len(p) >= frameSize {
		r.push(p[:frameSize])
		p = p[frameSize:]
	}
	if len(p) > 0 {
		r.partial = append(r.partial[:0], p...)
	}
	return n, nil
}

func (r *sampleRing) push(frame []byte) {
	sum := 0.0
	for ch := 0; ch < r.channels; ch++ {
		sum += float64(int16(binary.LittleEndian.Uint16(frame[ch*2:])))
	}
	r.buf[r.w] = sum / float64(r.channels) / 32768.0
	r.w = (r.w + 1) % len(r.buf)
	if r.len < len(r.buf) {
		r.len++
	}
}

// Latest copies the most recent len(dst) samples into dst, oldest first.
// Missing history is zero-filled at the front.
func (r *sampleRing) Latest(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(dst)
	avail := r.len
	if avail > n {
		avail = n
	}
	pad := n - avail
	for i := 0; i < pad; i++ {
		dst[i] = 0
	}
	if avail == 0 {
		return
	}
	start := (r.w - avail + len(r.buf)) % len(r.buf)
	for i := 0; i < avail; i++ {
		dst[pad+i] = r.buf[(start+i)%len(r.buf)]
	}
}

// Clear discards all samples.
func (r *sampleRing) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.w = 0
	r.len = 0
	r.partial = r.partial[:0]
}

// Resize changes the capacity, discarding samples.
func (r *sampleRing) Resize(size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf = make([]float64, size)
	r.w = 0
	r.len = 0
	r.partial = r.partial[:0]
}
