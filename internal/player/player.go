package player

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Output format of the shared audio context.
const (
	sampleRate   = 44100
	channelCount = 2
	bitDepth     = 2 // 16-bit = 2 bytes
	bytesPerSec  = sampleRate * channelCount * bitDepth

	outputBuffer = bytesPerSec / 10
	monitorEvery = 100 * time.Millisecond
)

// countingReader wraps a decoder and tracks the source bytes read. Reads and
// seeks are serialized so a seek never races the audio goroutine.
type countingReader struct {
	reader audioDecoder
	mu     sync.Mutex
	pos    int64
	eof    bool
}

func (cr *countingReader) Read(p []byte) (int, error) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	n, err := cr.reader.Read(p)
	cr.pos += int64(n)
	if err != nil {
		cr.eof = true
	}
	return n, err
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}

func (cr *countingReader) atEOF() bool {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.eof
}

// seekTo moves the decoder to a source byte offset.
func (cr *countingReader) seekTo(pos int64) error {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	got, err := cr.reader.Seek(pos, io.SeekStart)
	if err != nil {
		return err
	}
	cr.pos = got
	cr.eof = false
	return nil
}

// output is the part of *oto.Player the player drives.
type output interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(float64)
	BufferedSize() int
}

// Options configure a Player.
type Options struct {
	Volume float64
	Tap    io.Writer // receives the 44.1 kHz stereo PCM sent to the device
	Logger *log.Logger
}

// Player plays a local audio file through the shared oto context.
type Player struct {
	file      io.Closer
	decoder   audioDecoder
	counter   *countingReader
	newOutput func(io.Reader) output
	out       output
	tap       io.Writer
	logger    *log.Logger

	srcRate     int
	srcChannels int
	bytesPerSec int64 // source PCM bytes per second

	volume  float64
	paused  bool
	done    chan struct{}
	stopMon chan struct{}
	mu      sync.Mutex
	closed  bool
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// New opens path and starts playing it.
func New(path string, opts Options) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening audio: %w", err)
	}
	dec, err := newDecoder(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	ctx, err := initOto()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("initializing audio output: %w", err)
	}

	p, err := newPlayer(dec, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	p.file = f
	p.newOutput = func(r io.Reader) output {
		op := ctx.NewPlayer(r)
		op.SetBufferSize(outputBuffer)
		return op
	}

	p.mu.Lock()
	p.startOutput()
	p.mu.Unlock()
	go p.monitor()
	return p, nil
}

func newPlayer(dec audioDecoder, opts Options) (*Player, error) {
	rate, ch := dec.SampleRate(), dec.ChannelCount()
	if rate <= 0 || ch <= 0 {
		return nil, fmt.Errorf("unsupported stream: %d Hz, %d channels", rate, ch)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Player{
		decoder:     dec,
		counter:     &countingReader{reader: dec},
		tap:         opts.Tap,
		logger:      logger,
		srcRate:     rate,
		srcChannels: ch,
		bytesPerSec: int64(rate * ch * bitDepth),
		volume:      clampVolume(opts.Volume),
		done:        make(chan struct{}),
		stopMon:     make(chan struct{}),
	}, nil
}

// startOutput replaces the device stream with one reading from the current
// decoder position. Caller holds p.mu.
func (p *Player) startOutput() {
	if p.out != nil {
		p.out.Pause()
	}
	if p.newOutput == nil {
		return
	}
	var r io.Reader = newFormatReader(p.counter, p.srcRate, p.srcChannels)
	if p.tap != nil {
		r = &tapReader{src: r, tap: p.tap}
	}
	p.out = p.newOutput(r)
	p.out.SetVolume(p.volume)
	if !p.paused {
		p.out.Play()
	}
}

func (p *Player) monitor() {
	ticker := time.NewTicker(monitorEvery)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopMon:
			return
		case <-ticker.C:
			if p.finished() {
				close(p.done)
				return
			}
		}
	}
}

// finished reports whether the decoder is exhausted and the device has
// drained everything it was given.
func (p *Player) finished() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.paused || p.out == nil {
		return false
	}
	return p.counter.atEOF() && !p.out.IsPlaying()
}

// Done returns a channel that closes when playback reaches the end.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

// TogglePause toggles between play and pause.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = !p.paused
	if p.out == nil {
		return
	}
	if p.paused {
		p.out.Pause()
	} else {
		p.out.Play()
	}
}

// Paused returns whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns the playback clock: decoded audio minus what is still
// queued in the device buffer.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position()
}

func (p *Player) position() time.Duration {
	secs := float64(p.counter.Pos()) / float64(p.bytesPerSec)
	if p.out != nil {
		secs -= float64(p.out.BufferedSize()) / bytesPerSec
	}
	return time.Duration(max(secs, 0) * float64(time.Second))
}

// Duration returns the total duration of the track.
func (p *Player) Duration() time.Duration {
	secs := float64(p.decoder.Length()) / float64(p.bytesPerSec)
	return time.Duration(secs * float64(time.Second))
}

// Seek moves playback by delta from the current position.
func (p *Player) Seek(delta time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seekTo(p.position() + delta)
}

// SeekTo moves playback to an absolute position, keeping the pause state.
func (p *Player) SeekTo(pos time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seekTo(pos)
}

func (p *Player) seekTo(pos time.Duration) error {
	frame := int64(p.srcChannels * bitDepth)
	off := clampSeekByteOffset(pos, p.bytesPerSec, p.decoder.Length(), frame)
	if err := p.counter.seekTo(off); err != nil {
		p.logger.Printf("seek to %v failed: %v", pos, err)
		return fmt.Errorf("seeking: %w", err)
	}
	p.startOutput()
	return nil
}

// clampSeekByteOffset converts a position to a frame-aligned byte offset
// inside [0, length].
func clampSeekByteOffset(pos time.Duration, bytesPerSec, length, frameSize int64) int64 {
	off := int64(pos.Seconds() * float64(bytesPerSec))
	off = max(0, min(off, length))
	return off - off%frameSize
}

// Volume returns current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clampVolume(v)
	if p.out != nil {
		p.out.SetVolume(p.volume)
	}
}

// AdjustVolume adjusts volume by delta.
func (p *Player) AdjustVolume(delta float64) {
	p.mu.Lock()
	v := p.volume + delta
	p.mu.Unlock()
	p.SetVolume(v)
}

func clampVolume(v float64) float64 {
	return max(0, min(v, 1))
}

// Close stops playback and releases the file.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.stopMon)
	if p.out != nil {
		p.out.Pause()
	}
	if p.file != nil {
		p.file.Close()
	}
}
