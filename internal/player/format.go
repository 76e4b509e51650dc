package player

import (
	"encoding/binary"
	"io"
)

// formatReader converts 16-bit PCM at any rate and channel count into the
// output format (16-bit stereo at sampleRate). Rates are converted by linear
// interpolation between neighbouring source frames; mono is duplicated to
// both channels and channels beyond the second are dropped.
type formatReader struct {
	src      io.Reader
	channels int
	step     float64 // source frames per output frame
	passthru bool

	raw []byte
	in  []byte
	err error

	phase      float64
	prev, next [2]float64
	primed     bool
}

const formatChunkFrames = 1024

func newFormatReader(src io.Reader, srcRate, srcChannels int) *formatReader {
	return &formatReader{
		src:      src,
		channels: srcChannels,
		step:     float64(srcRate) / sampleRate,
		passthru: srcRate == sampleRate && srcChannels == channelCount,
		raw:      make([]byte, formatChunkFrames*srcChannels*2),
	}
}

func (f *formatReader) Read(p []byte) (int, error) {
	if f.passthru {
		return f.src.Read(p)
	}
	if !f.primed {
		if !f.frame(&f.prev) || !f.frame(&f.next) {
			return 0, f.end()
		}
		f.primed = true
	}

	const frameBytes = channelCount * 2
	n := 0
	for n+frameBytes <= len(p) {
		for f.phase >= 1 {
			f.prev = f.next
			if !f.frame(&f.next) {
				if n > 0 {
					return n, nil
				}
				return 0, f.end()
			}
			f.phase--
		}
		for ch := range channelCount {
			v := f.prev[ch] + (f.next[ch]-f.prev[ch])*f.phase
			binary.LittleEndian.PutUint16(p[n+ch*2:], uint16(int16(v)))
		}
		n += frameBytes
		f.phase += f.step
	}
	return n, nil
}

func (f *formatReader) end() error {
	if f.err == nil {
		return io.EOF
	}
	return f.err
}

// frame reads the next source frame, mapped to stereo.
func (f *formatReader) frame(dst *[2]float64) bool {
	size := f.channels * 2
	for len(f.in) < size {
		if f.err != nil {
			return false
		}
		kept := copy(f.raw, f.in)
		m, err := f.src.Read(f.raw[kept:])
		f.in = f.raw[:kept+m]
		f.err = err
	}
	l := float64(int16(binary.LittleEndian.Uint16(f.in)))
	r := l
	if f.channels > 1 {
		r = float64(int16(binary.LittleEndian.Uint16(f.in[2:])))
	}
	dst[0], dst[1] = l, r
	f.in = f.in[size:]
	return true
}

// tapReader copies everything read through it to a PCM sink.
type tapReader struct {
	src io.Reader
	tap io.Writer
}

func (t *tapReader) Read(p []byte) (int, error) {
	n, err := t.src.Read(p)
	if n > 0 {
		t.tap.Write(p[:n])
	}
	return n, err
}
