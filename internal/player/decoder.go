package player

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// audioDecoder yields interleaved signed 16-bit little-endian PCM at the
// source sample rate and channel count.
type audioDecoder interface {
	io.ReadSeeker
	Length() int64 // total PCM bytes
	SampleRate() int
	ChannelCount() int
}

// newDecoder picks a decoder by file extension.
func newDecoder(f *os.File) (audioDecoder, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".mp3":
		return newMP3Decoder(f)
	case ".wav":
		return newWAVDecoder(f)
	case ".flac":
		return newFLACDecoder(f)
	case ".ogg":
		return newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}
}

// pcmCursor tracks the output position of a decoder that produces PCM in
// chunks larger than the caller's buffer.
type pcmCursor struct {
	pending []byte
	pos     int64
	total   int64
}

// drain copies pending bytes into p.
func (c *pcmCursor) drain(p []byte) (int, bool) {
	if len(c.pending) == 0 {
		return 0, false
	}
	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	c.pos += int64(n)
	return n, true
}

// emit copies a freshly decoded chunk into p and keeps the remainder.
func (c *pcmCursor) emit(p, chunk []byte) int {
	n := copy(p, chunk)
	if n < len(chunk) {
		c.pending = chunk[n:]
	}
	c.pos += int64(n)
	return n
}

// target resolves a seek request to a clamped byte offset.
func (c *pcmCursor) target(offset int64, whence int) int64 {
	pos := offset
	switch whence {
	case io.SeekCurrent:
		pos = c.pos + offset
	case io.SeekEnd:
		pos = c.total + offset
	}
	return max(0, min(pos, c.total))
}

func (c *pcmCursor) moved(pos int64) {
	c.pending = nil
	c.pos = pos
}

func putSample(dst []byte, v int) {
	binary.LittleEndian.PutUint16(dst, uint16(int16(max(-32768, min(v, 32767)))))
}

// --- MP3 ---

// go-mp3 always decodes to 16-bit stereo. Encoder padding recorded in a
// LAME header is trimmed from both ends.
type mp3Decoder struct {
	io.ReadSeeker
	length     int64
	sampleRate int
}

func newMP3Decoder(f *os.File) (*mp3Decoder, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	rs, length, err := openGaplessMP3(f, dec.Length(), dec)
	if err != nil {
		return nil, fmt.Errorf("trimming MP3 padding: %w", err)
	}
	return &mp3Decoder{ReadSeeker: rs, length: length, sampleRate: dec.SampleRate()}, nil
}

func (d *mp3Decoder) Length() int64     { return d.length }
func (d *mp3Decoder) SampleRate() int   { return d.sampleRate }
func (d *mp3Decoder) ChannelCount() int { return 2 }

// --- WAV ---

type wavDecoder struct {
	pcmCursor
	file        *os.File
	pcmStart    int64
	sampleRate  int
	channels    int
	sampleBytes int
}

func newWAVDecoder(f *os.File) (*wavDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}
	if dec.WavAudioFormat != 1 {
		return nil, fmt.Errorf("unsupported WAV encoding %d", dec.WavAudioFormat)
	}

	sampleBytes := int(dec.BitDepth) / 8
	channels := int(dec.NumChans)
	if sampleBytes < 1 || sampleBytes > 4 || channels < 1 {
		return nil, fmt.Errorf("unsupported WAV layout: %d-bit, %d channels", dec.BitDepth, channels)
	}
	pcmStart, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locating WAV PCM data: %w", err)
	}

	frames := dec.PCMLen() / int64(sampleBytes*channels)
	return &wavDecoder{
		pcmCursor:   pcmCursor{total: frames * int64(channels) * 2},
		file:        f,
		pcmStart:    pcmStart,
		sampleRate:  int(dec.SampleRate),
		channels:    channels,
		sampleBytes: sampleBytes,
	}, nil
}

func (d *wavDecoder) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}
	if d.pos >= d.total {
		return 0, io.EOF
	}

	want := max(len(p)/2, 1)
	if remaining := int((d.total - d.pos) / 2); want > remaining {
		want = remaining
	}
	src := make([]byte, want*d.sampleBytes)
	n, err := io.ReadFull(d.file, src)
	samples := n / d.sampleBytes
	if samples == 0 {
		if err == nil || err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return 0, err
	}

	out := make([]byte, samples*2)
	for i := range samples {
		putSample(out[i*2:], d.sample(src[i*d.sampleBytes:]))
	}
	written := d.emit(p, out)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return written, err
}

// sample converts one source sample to the 16-bit range.
func (d *wavDecoder) sample(b []byte) int {
	switch d.sampleBytes {
	case 1:
		return (int(b[0]) - 128) << 8 // 8-bit WAV is unsigned
	case 2:
		return int(int16(binary.LittleEndian.Uint16(b)))
	case 3:
		v := int32(b[0]) | int32(b[1])<<8 | int32(int8(b[2]))<<16
		return int(v >> 8)
	default:
		return int(int32(binary.LittleEndian.Uint32(b)) >> 16)
	}
}

func (d *wavDecoder) Seek(offset int64, whence int) (int64, error) {
	pos := d.target(offset, whence)
	frame := pos / int64(d.channels*2)
	src := frame * int64(d.channels*d.sampleBytes)
	if _, err := d.file.Seek(d.pcmStart+src, io.SeekStart); err != nil {
		return d.pos, err
	}
	d.moved(frame * int64(d.channels*2))
	return d.pos, nil
}

func (d *wavDecoder) Length() int64     { return d.total }
func (d *wavDecoder) SampleRate() int   { return d.sampleRate }
func (d *wavDecoder) ChannelCount() int { return d.channels }

// --- FLAC ---

type flacDecoder struct {
	pcmCursor
	stream     *flac.Stream
	sampleRate int
	channels   int
	shift      int // bits to move samples into the 16-bit range
}

func newFLACDecoder(f *os.File) (*flacDecoder, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	info := stream.Info
	channels := int(info.NChannels)
	return &flacDecoder{
		pcmCursor:  pcmCursor{total: int64(info.NSamples) * int64(channels) * 2},
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   channels,
		shift:      int(info.BitsPerSample) - 16,
	}, nil
}

func (d *flacDecoder) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}
	frame, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	n := int(frame.Subframes[0].NSamples)
	out := make([]byte, n*d.channels*2)
	for i := range n {
		for ch := range d.channels {
			v := int(frame.Subframes[ch].Samples[i])
			if d.shift > 0 {
				v >>= d.shift
			} else {
				v <<= -d.shift
			}
			putSample(out[(i*d.channels+ch)*2:], v)
		}
	}
	return d.emit(p, out), nil
}

func (d *flacDecoder) Seek(offset int64, whence int) (int64, error) {
	pos := d.target(offset, whence)
	sample := uint64(pos / int64(d.channels*2))
	actual, err := d.stream.Seek(sample)
	if err != nil {
		return d.pos, err
	}
	d.moved(int64(actual) * int64(d.channels*2))
	return d.pos, nil
}

func (d *flacDecoder) Length() int64     { return d.total }
func (d *flacDecoder) SampleRate() int   { return d.sampleRate }
func (d *flacDecoder) ChannelCount() int { return d.channels }

// --- Ogg Vorbis ---

type oggDecoder struct {
	pcmCursor
	reader  *oggvorbis.Reader
	samples []float32
}

func newOGGDecoder(f *os.File) (*oggDecoder, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	return &oggDecoder{
		pcmCursor: pcmCursor{total: reader.Length() * int64(reader.Channels()) * 2},
		reader:    reader,
	}, nil
}

func (d *oggDecoder) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}
	want := max(len(p)/2, d.reader.Channels())
	if cap(d.samples) < want {
		d.samples = make([]float32, want)
	}
	n, err := d.reader.Read(d.samples[:want])
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	out := make([]byte, n*2)
	for i, s := range d.samples[:n] {
		putSample(out[i*2:], int(s*32767))
	}
	return d.emit(p, out), err
}

func (d *oggDecoder) Seek(offset int64, whence int) (int64, error) {
	pos := d.target(offset, whence)
	frameBytes := int64(d.reader.Channels() * 2)
	if err := d.reader.SetPosition(pos / frameBytes); err != nil {
		return d.pos, err
	}
	d.moved(pos - pos%frameBytes)
	return d.pos, nil
}

func (d *oggDecoder) Length() int64     { return d.total }
func (d *oggDecoder) SampleRate() int   { return d.reader.SampleRate() }
func (d *oggDecoder) ChannelCount() int { return d.reader.Channels() }
