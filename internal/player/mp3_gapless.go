package player

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
)

// Samples of delay added by the go-mp3 synthesis filter on top of the
// encoder delay recorded in the LAME header.
const mp3DecoderDelaySamples = 529

var errNoGaplessInfo = errors.New("no gapless info")

// readMP3GaplessTrim returns the number of leading and trailing samples per
// channel that are encoder padding. Files without a LAME/Xing header yield
// zero trims. The file offset is restored.
func readMP3GaplessTrim(f io.ReadSeeker) (start, end int64, err error) {
	saved, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, 0, err
	}
	defer f.Seek(saved, io.SeekStart)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}
	head := make([]byte, 10)
	if _, err := io.ReadFull(f, head); err != nil {
		return 0, 0, nil
	}
	frameStart := id3v2Size(head)

	if _, err := f.Seek(frameStart, io.SeekStart); err != nil {
		return 0, 0, err
	}
	buf := make([]byte, 4+2+32+256)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return 0, 0, err
	}
	start, end, err = parseLAMEGapless(buf[:n])
	if errors.Is(err, errNoGaplessInfo) {
		return 0, 0, nil
	}
	return start, end, err
}

// id3v2Size returns the length of a leading ID3v2 tag, or 0.
func id3v2Size(head []byte) int64 {
	if len(head) < 10 || !bytes.Equal(head[:3], []byte("ID3")) {
		return 0
	}
	b := head[6:10]
	size := int64(b[0]&0x7f)<<21 | int64(b[1]&0x7f)<<14 | int64(b[2]&0x7f)<<7 | int64(b[3]&0x7f)
	if head[5]&0x10 != 0 { // footer present
		size += 10
	}
	return 10 + size
}

// xingOffset returns where the Xing/Info tag starts inside a layer III frame
// beginning with the given header.
func xingOffset(header []byte) (int, error) {
	if len(header) < 4 {
		return 0, errNoGaplessInfo
	}
	h := binary.BigEndian.Uint32(header)
	version := (h >> 19) & 0x3
	if h>>21 != 0x7ff || (h>>17)&0x3 != 0x1 || version == 0x1 {
		return 0, errNoGaplessInfo
	}
	mpeg1 := version == 0x3
	mono := (h>>6)&0x3 == 0x3

	side := 17
	switch {
	case mpeg1 && !mono:
		side = 32
	case !mpeg1 && mono:
		side = 9
	}
	off := 4 + side
	if (h>>16)&0x1 == 0 { // CRC follows the header
		off += 2
	}
	return off, nil
}

// parseLAMEGapless reads the encoder delay and padding from the first MP3
// frame.
func parseLAMEGapless(frame []byte) (start, end int64, err error) {
	off, err := xingOffset(frame)
	if err != nil {
		return 0, 0, err
	}
	if off > len(frame) {
		return 0, 0, errNoGaplessInfo
	}
	b := frame[off:]
	if len(b) < 8 || (string(b[:4]) != "Xing" && string(b[:4]) != "Info") {
		return 0, 0, errNoGaplessInfo
	}

	flags := binary.BigEndian.Uint32(b[4:8])
	pos := 8
	for _, f := range []struct {
		bit  uint32
		size int
	}{{0x1, 4}, {0x2, 4}, {0x4, 100}, {0x8, 4}} {
		if flags&f.bit != 0 {
			pos += f.size
		}
	}
	if len(b) < pos+24 {
		return 0, 0, errNoGaplessInfo
	}

	dp := b[pos+21 : pos+24]
	delay := int64(dp[0])<<4 | int64(dp[1]>>4)
	padding := int64(dp[1]&0x0f)<<8 | int64(dp[2])
	if delay == 0 && padding == 0 {
		return 0, 0, errNoGaplessInfo
	}
	return delay + mp3DecoderDelaySamples, max(padding-mp3DecoderDelaySamples, 0), nil
}

// gaplessTrim hides leading and trailing bytes of a decoded stream.
type gaplessTrim struct {
	src    io.ReadSeeker
	skip   int64 // leading bytes hidden
	length int64 // visible bytes
	pos    int64
}

func (g *gaplessTrim) Read(p []byte) (int, error) {
	if g.pos >= g.length {
		return 0, io.EOF
	}
	if rem := g.length - g.pos; int64(len(p)) > rem {
		p = p[:rem]
	}
	n, err := g.src.Read(p)
	g.pos += int64(n)
	return n, err
}

func (g *gaplessTrim) Seek(offset int64, whence int) (int64, error) {
	pos := offset
	switch whence {
	case io.SeekCurrent:
		pos += g.pos
	case io.SeekEnd:
		pos += g.length
	}
	pos = max(0, min(pos, g.length))
	if _, err := g.src.Seek(g.skip+pos, io.SeekStart); err != nil {
		return g.pos, err
	}
	g.pos = pos
	return pos, nil
}

// newGaplessTrim positions src after the leading padding. Trims that would
// leave nothing are ignored.
func newGaplessTrim(src io.ReadSeeker, total, startBytes, endBytes int64) (*gaplessTrim, error) {
	if startBytes+endBytes >= total {
		startBytes, endBytes = 0, 0
	}
	g := &gaplessTrim{src: src, skip: startBytes, length: total - startBytes - endBytes}
	if _, err := g.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return g, nil
}

func openGaplessMP3(f *os.File, total int64, dec io.ReadSeeker) (io.ReadSeeker, int64, error) {
	start, end, err := readMP3GaplessTrim(f)
	if err != nil || (start == 0 && end == 0) {
		return dec, total, nil
	}
	const frame = 4 // go-mp3 output is 16-bit stereo
	g, err := newGaplessTrim(dec, total, start*frame, end*frame)
	if err != nil {
		return nil, 0, err
	}
	return g, g.length, nil
}
