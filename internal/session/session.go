// Package session holds the state of one playback session: the queue, the
// lyrics for the current track, and the spectrum pipeline fed by the player.
package session

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/olivier-w/lrcplay/internal/lyrics"
	"github.com/olivier-w/lrcplay/internal/queue"
	"github.com/olivier-w/lrcplay/internal/settings"
	"github.com/olivier-w/lrcplay/internal/visualizer"
)

// Options configure a Session.
type Options struct {
	Store  settings.Store
	Queue  *queue.Queue
	Logger *log.Logger
	Lyrics lyrics.LoadOptions
}

// Session is driven from the UI loop; Tap is the only method expected to be
// called from another goroutine.
type Session struct {
	mu        sync.Mutex
	store     settings.Store
	queue     *queue.Queue
	logger    *log.Logger
	lyricOpts lyrics.LoadOptions

	lyrics *lyrics.Track
	active int

	renderer *visualizer.Renderer
	analyser *visualizer.Analyser
	freq     []byte
	volume   float64
	closed   bool
}

// New creates a session with the persisted visualizer settings.
func New(opts Options) (*Session, error) {
	if opts.Store == nil {
		return nil, errors.New("session: nil settings store")
	}
	if opts.Queue == nil {
		return nil, errors.New("session: nil queue")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if opts.Lyrics.Logger == nil {
		opts.Lyrics.Logger = logger
	}

	cfg, err := settings.LoadVisualizerConfig(opts.Store)
	if err != nil {
		logger.Printf("loading visualizer settings: %v", err)
	}
	vol, err := settings.LoadVolume(opts.Store)
	if err != nil {
		logger.Printf("loading volume: %v", err)
	}

	return &Session{
		store:     opts.Store,
		queue:     opts.Queue,
		logger:    logger,
		lyricOpts: opts.Lyrics,
		lyrics:    lyrics.Missing(),
		active:    -1,
		renderer:  visualizer.NewRenderer(cfg),
		analyser:  visualizer.NewAnalyser(cfg.FFTSize, 2),
		volume:    vol,
	}, nil
}

// Queue returns the play queue.
func (s *Session) Queue() *queue.Queue { return s.queue }

// ReadLyrics loads the companion lyrics of track without installing them.
// Failures are logged and replaced by the missing-lyrics placeholder.
func (s *Session) ReadLyrics(track queue.Track) *lyrics.Track {
	t, err := lyrics.Load(track.LyricsPath, s.lyricOpts)
	if err != nil {
		s.logger.Printf("lyrics for %s: %v", track.Title, err)
		return lyrics.Missing()
	}
	return t
}

// LoadLyrics reads the companion lyrics of track and makes them current.
func (s *Session) LoadLyrics(track queue.Track) *lyrics.Track {
	t := s.ReadLyrics(track)
	s.SetLyrics(t)
	return t
}

// SetLyrics replaces the current lyrics. The next time update always
// reports a change.
func (s *Session) SetLyrics(t *lyrics.Track) {
	if t == nil {
		t = lyrics.Missing()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lyrics = t
	s.active = -1
}

// Lyrics returns the current lyrics.
func (s *Session) Lyrics() *lyrics.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lyrics
}

// OnTimeUpdate moves the active lyric line to the playback position sec.
func (s *Session) OnTimeUpdate(sec float64) (index int, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.lyrics.ActiveIndex(sec)
	changed = idx != s.active
	s.active = idx
	return idx, changed
}

// Frame renders one visualizer frame for a surface of the given size. It
// returns nil once the session is closed. While the visualizer is disabled or
// the surface is hidden the renderer keeps its geometry and bar heights.
func (s *Session) Frame(width, height float64) []visualizer.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if !s.renderer.Config().Enabled || width <= 0 || height <= 0 {
		return []visualizer.Command{{Kind: visualizer.CmdClear, Width: width, Height: height}}
	}
	s.renderer.Resize(width, height)
	if s.renderer.Config().Enabled {
		s.freq = s.analyser.ByteFrequencyData(s.freq)
	}
	return s.renderer.Tick(s.freq, barsFor(s.renderer.Config().BarCount, width))
}

// barsFor limits the bar count so every bar is at least as wide as its gap.
func barsFor(want int, width float64) int {
	limit := int(width / 8)
	return max(1, min(want, limit))
}

// Config returns the active visualizer settings.
func (s *Session) Config() visualizer.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer.Config()
}

// UpdateConfig applies a settings change and persists every field.
func (s *Session) UpdateConfig(fn func(*visualizer.Config)) error {
	s.mu.Lock()
	cfg := s.renderer.Config()
	fn(&cfg)
	cfg = cfg.Normalize()
	s.renderer.SetConfig(cfg)
	if cfg.FFTSize != s.analyser.FFTSize() {
		s.analyser.SetFFTSize(cfg.FFTSize)
	}
	s.mu.Unlock()

	if err := settings.SaveVisualizerConfig(s.store, cfg); err != nil {
		return fmt.Errorf("saving visualizer settings: %w", err)
	}
	return nil
}

// Volume returns the persisted playback volume.
func (s *Session) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// SetVolume records the playback volume.
func (s *Session) SetVolume(v float64) error {
	s.mu.Lock()
	s.volume = v
	s.mu.Unlock()
	if err := settings.SaveVolume(s.store, v); err != nil {
		return fmt.Errorf("saving volume: %w", err)
	}
	return nil
}

// Tap returns the sink for the PCM the player sends to the device.
func (s *Session) Tap() io.Writer { return s.analyser }

// ResetAnalyser drops buffered audio, e.g. after a seek or track change.
func (s *Session) ResetAnalyser() { s.analyser.Reset() }

// Close releases the analyser. Frames rendered afterwards are empty.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.analyser.Close()
}
