package ui

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/lrcplay/internal/library"
	"github.com/olivier-w/lrcplay/internal/player"
	"github.com/olivier-w/lrcplay/internal/queue"
	"github.com/olivier-w/lrcplay/internal/session"
	"github.com/olivier-w/lrcplay/internal/util"
	"github.com/olivier-w/lrcplay/internal/visualizer"
)

const (
	seekStep      = 5 * time.Second
	volumeStep    = 0.05
	speedStep     = 0.05
	ratioStep     = 0.05
	noticeTimeout = 4 * time.Second
)

// palettes cycled with the colour key.
var palettes = []string{visualizer.PaletteRainbow, "#4fc3f7", "#81c784", "#ffb74d", "#f06292", "#ba68c8"}

// Playback is the part of *player.Player the UI drives.
type Playback interface {
	Position() time.Duration
	Duration() time.Duration
	TogglePause()
	Paused() bool
	Seek(delta time.Duration) error
	Volume() float64
	SetVolume(v float64)
	Done() <-chan struct{}
	Close()
}

// OpenFunc starts playback of a file.
type OpenFunc func(path string, opts player.Options) (Playback, error)

// OpenPlayer opens files with the audio device.
func OpenPlayer(path string, opts player.Options) (Playback, error) {
	p, err := player.New(path, opts)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Options configure the player screen.
type Options struct {
	Session       *session.Session
	Open          OpenFunc
	LibraryDir    string // rescanned when Watcher signals
	Watcher       *library.Watcher
	Logger        *log.Logger
	FrameRate     int
	FrameInterval time.Duration
	TimeUpdate    time.Duration
	Name          string // shown in the header
}

// Model is the Bubbletea model for the player screen.
type Model struct {
	session  *session.Session
	queue    *queue.Queue
	open     OpenFunc
	player   Playback
	metadata player.Metadata
	logger   *log.Logger

	elapsed  time.Duration
	duration time.Duration
	volume   float64
	paused   bool
	repeat   RepeatMode
	active   int

	width    int
	height   int
	quitting bool

	frameEvery time.Duration
	timeEvery  time.Duration
	surface    *visualizer.Surface
	spectrum   string
	scroll     *lyricScroll

	lyricSeq      int
	loadingLyrics bool
	spinner       spinner.Model
	progress      progress.Model

	notice    string
	noticeErr bool
	noticeSeq int

	drawerOpen   bool
	drawerCursor int

	libraryDir string
	watcher    *library.Watcher
	name       string
}

// New creates the player screen. Call Start to begin playing the current
// queue entry.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	open := opts.Open
	if open == nil {
		open = OpenPlayer
	}
	fps := opts.FrameRate
	if fps <= 0 {
		fps = 60
	}
	frameEvery := opts.FrameInterval
	if frameEvery <= 0 {
		frameEvery = time.Second / time.Duration(fps)
	}
	timeEvery := opts.TimeUpdate
	if timeEvery <= 0 {
		timeEvery = 250 * time.Millisecond
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	scroll := newLyricScroll(fps)
	name := opts.Name
	if name == "" {
		name = "lrcplay"
	}
	return Model{
		session:    opts.Session,
		queue:      opts.Session.Queue(),
		open:       open,
		logger:     logger,
		volume:     opts.Session.Volume(),
		frameEvery: frameEvery,
		timeEvery:  timeEvery,
		surface:    visualizer.NewSurface(0, 0),
		scroll:     &scroll,
		spinner:    s,
		progress: progress.New(
			progress.WithScaledGradient("#FF8C00", "#FF5F1F"),
			progress.WithoutPercentage(),
		),
		libraryDir: opts.LibraryDir,
		watcher:    opts.Watcher,
		name:       name,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(m.frameEvery), timeUpdateCmd(m.timeEvery), waitLibraryCmd(m.watcher))
}

// Start plays the current queue entry.
func (m Model) Start() (Model, tea.Cmd) {
	return m.playIndex(m.queue.CurrentIndex())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		if m.quitting {
			return m, nil
		}
		w, h := m.surface.Size()
		m.surface.Draw(m.session.Frame(w, h))
		m.spectrum = m.surface.Render()
		m.scroll.Step()
		return m, frameCmd(m.frameEvery)

	case timeUpdateMsg:
		if m.quitting {
			return m, nil
		}
		m.syncClock()
		return m, timeUpdateCmd(m.timeEvery)

	case playbackEndedMsg:
		if msg.player != m.player || m.quitting {
			return m, nil
		}
		m.queue.SetTrackState(m.queue.CurrentIndex(), queue.Done)
		if m.repeat == RepeatOne {
			return m.playIndex(m.queue.CurrentIndex())
		}
		m.queue.Next()
		return m.playIndex(m.queue.CurrentIndex())

	case lyricsLoadedMsg:
		if msg.seq != m.lyricSeq {
			return m, nil
		}
		m.loadingLyrics = false
		m.session.SetLyrics(msg.lyrics)
		m.active = -1
		m.syncClock()
		m.scroll.Jump(max(m.active, 0))
		return m, nil

	case spinner.TickMsg:
		if !m.loadingLyrics {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case libraryChangedMsg:
		return m.rescanLibrary()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if isQuit(msg) {
		return m.quit()
	}
	if m.drawerOpen {
		switch msg.String() {
		case "up", "k":
			m.drawerCursor = max(m.drawerCursor-1, 0)
			return m, nil
		case "down", "j":
			m.drawerCursor = max(min(m.drawerCursor+1, m.queue.Len()-1), 0)
			return m, nil
		case "enter":
			m.drawerOpen = false
			m.layout()
			if m.queue.Len() == 0 {
				return m, nil
			}
			return m.playIndex(m.drawerCursor)
		}
	}

	switch msg.String() {
	case " ":
		if m.player == nil {
			return m, nil
		}
		m.player.TogglePause()
		m.paused = m.player.Paused()
		return m, tea.SetWindowTitle(m.windowTitle())
	case "n":
		m.queue.Next()
		return m.playIndex(m.queue.CurrentIndex())
	case "p":
		m.queue.Previous()
		return m.playIndex(m.queue.CurrentIndex())
	case "left":
		return m.seek(-seekStep)
	case "right":
		return m.seek(seekStep)
	case "+", "=":
		return m.adjustVolume(volumeStep)
	case "-", "_":
		return m.adjustVolume(-volumeStep)
	case "tab":
		m.drawerOpen = !m.drawerOpen
		m.drawerCursor = max(m.queue.CurrentIndex(), 0)
		m.layout()
		return m, nil
	case "r":
		m.repeat = m.repeat.Next()
		return m, nil
	case "v":
		return m.updateConfig(func(c *visualizer.Config) { c.Enabled = !c.Enabled })
	case "[":
		return m.updateConfig(func(c *visualizer.Config) { c.RiseSpeed -= speedStep })
	case "]":
		return m.updateConfig(func(c *visualizer.Config) { c.RiseSpeed += speedStep })
	case "{":
		return m.updateConfig(func(c *visualizer.Config) { c.FallSpeed -= speedStep })
	case "}":
		return m.updateConfig(func(c *visualizer.Config) { c.FallSpeed += speedStep })
	case "<", ",":
		return m.updateConfig(func(c *visualizer.Config) { c.HeightRatio -= ratioStep })
	case ">", ".":
		return m.updateConfig(func(c *visualizer.Config) { c.HeightRatio += ratioStep })
	case "c":
		return m.updateConfig(func(c *visualizer.Config) { c.Color = nextPalette(c.Color) })
	}
	return m, nil
}

func nextPalette(cur string) string {
	for i, p := range palettes {
		if p == cur {
			return palettes[(i+1)%len(palettes)]
		}
	}
	return palettes[0]
}

func (m Model) quit() (Model, tea.Cmd) {
	m.quitting = true
	if m.player != nil {
		m.player.Close()
	}
	if m.watcher != nil {
		m.watcher.Close()
	}
	if err := m.session.Close(); err != nil {
		m.logger.Printf("closing session: %v", err)
	}
	return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

// playIndex stops the current track and starts queue entry i.
func (m Model) playIndex(i int) (Model, tea.Cmd) {
	if m.player != nil {
		m.player.Close()
		m.player = nil
	}
	m.queue.SetCurrentIndex(i)
	track := m.queue.Current()
	if track == nil {
		m.metadata = player.Metadata{}
		return m.setNotice("Nothing to play", true)
	}
	idx := m.queue.CurrentIndex()

	m.session.ResetAnalyser()
	m.elapsed, m.duration, m.paused = 0, 0, false
	m.metadata = player.ReadMetadata(track.Path)

	p, err := m.open(track.Path, player.Options{
		Volume: m.volume,
		Tap:    m.session.Tap(),
		Logger: m.logger,
	})
	if err != nil {
		m.logger.Printf("cannot play %s: %v", track.Path, err)
		m.queue.SetTrackState(idx, queue.Failed)
		m.lyricSeq++
		m.loadingLyrics = false
		m.session.SetLyrics(nil)
		return m.setNotice(fmt.Sprintf("Cannot play %s: %v", track.Title, err), true)
	}
	m.player = p
	m.duration = p.Duration()
	m.queue.SetTrackState(idx, queue.Playing)

	m.lyricSeq++
	m.loadingLyrics = true
	m.active = -1
	m.scroll.Jump(0)
	return m, tea.Batch(
		loadLyricsCmd(m.session, *track, m.lyricSeq),
		checkDone(p),
		m.spinner.Tick,
		tea.SetWindowTitle(m.windowTitle()),
	)
}

// syncClock reads the playback position and moves the active lyric line.
func (m *Model) syncClock() {
	if m.player == nil {
		return
	}
	m.elapsed = m.player.Position()
	m.paused = m.player.Paused()
	if m.loadingLyrics {
		return
	}
	idx, changed := m.session.OnTimeUpdate(m.elapsed.Seconds())
	if changed {
		m.active = idx
		m.scroll.SetTarget(idx)
	}
}

func (m Model) seek(delta time.Duration) (Model, tea.Cmd) {
	if m.player == nil {
		return m, nil
	}
	if err := m.player.Seek(delta); err != nil {
		return m.setNotice(fmt.Sprintf("Seek failed: %v", err), true)
	}
	m.session.ResetAnalyser()
	m.syncClock()
	return m, nil
}

func (m Model) adjustVolume(delta float64) (Model, tea.Cmd) {
	m.volume = max(0, min(m.volume+delta, 1))
	if m.player != nil {
		m.player.SetVolume(m.volume)
	}
	if err := m.session.SetVolume(m.volume); err != nil {
		m.logger.Printf("%v", err)
		return m.setNotice("Could not save volume", true)
	}
	return m, nil
}

func (m Model) updateConfig(fn func(*visualizer.Config)) (Model, tea.Cmd) {
	err := m.session.UpdateConfig(fn)
	m.layout()
	if err != nil {
		m.logger.Printf("%v", err)
		return m.setNotice("Could not save settings", true)
	}
	return m, nil
}

func (m Model) setNotice(text string, isErr bool) (Model, tea.Cmd) {
	m.noticeSeq++
	m.notice = text
	m.noticeErr = isErr
	return m, noticeExpiryCmd(m.noticeSeq, noticeTimeout)
}

func (m Model) rescanLibrary() (Model, tea.Cmd) {
	next := waitLibraryCmd(m.watcher)
	if m.libraryDir == "" {
		return m, next
	}
	songs, err := library.Scan(m.libraryDir)
	if err != nil {
		m.logger.Printf("rescanning %s: %v", m.libraryDir, err)
		return m, next
	}
	m.queue.Replace(TracksFromSongs(songs))
	m.drawerCursor = min(m.drawerCursor, max(m.queue.Len()-1, 0))
	m, notice := m.setNotice(fmt.Sprintf("Library updated: %d tracks", m.queue.Len()), false)
	return m, tea.Batch(next, notice)
}

// TracksFromSongs converts scanned songs into queue entries.
func TracksFromSongs(songs []library.Song) []queue.Track {
	tracks := make([]queue.Track, len(songs))
	for i, s := range songs {
		tracks[i] = queue.Track{Title: s.Name, Path: s.Path, LyricsPath: s.LyricsPath}
	}
	return tracks
}

// Fixed rows outside the lyric and spectrum panes.
const chromeRows = 9

// layout sizes the spectrum surface for the window.
func (m *Model) layout() {
	cols := max(m.width-4, 0)
	rows := 0
	if m.session.Config().Enabled && !m.drawerOpen {
		rows = max((m.height-chromeRows)/3, 0)
	}
	if c, r := m.surface.Dims(); c != cols || r != rows {
		m.surface.Resize(cols, rows)
		m.spectrum = ""
	}
	m.progress.Width = max(m.width-20, 10)
}

func (m Model) windowTitle() string {
	icon := "▶"
	if m.paused {
		icon = "⏸"
	}
	return icon + " " + m.metadata.Title + " · " + m.name
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	w := m.width
	if w < 30 {
		w = 50
	}
	inner := w - 4

	var b strings.Builder
	b.WriteString("\n  " + headerStyle.Render(m.name) + "\n\n")
	b.WriteString("  " + titleStyle.MaxWidth(inner).Render(m.titleText()) + "\n")
	b.WriteString("  " + artistStyle.MaxWidth(inner).Render(m.subtitleText()) + "\n")

	_, specRows := m.surface.Dims()
	paneRows := max(m.height-chromeRows-specRows, 3)
	var pane string
	switch {
	case m.drawerOpen:
		pane = renderDrawer(m.queue.Tracks(), m.queue.CurrentIndex(), m.drawerCursor, inner, paneRows)
	case m.loadingLyrics:
		pane = renderLoading(m.spinner.View()+" loading lyrics", inner, paneRows)
	default:
		pane = renderLyrics(m.session.Lyrics(), m.active, m.scroll.pos, inner, paneRows)
	}
	b.WriteString(indent(pane, "  ") + "\n")
	if specRows > 0 && m.spectrum != "" {
		b.WriteString(indent(m.spectrum, "  ") + "\n")
	}

	ratio := 0.0
	if m.duration > 0 {
		ratio = m.elapsed.Seconds() / m.duration.Seconds()
	}
	b.WriteString(fmt.Sprintf("  %s %s %s\n",
		timeStyle.Render(util.FormatDuration(m.elapsed)),
		m.progress.ViewAs(max(0, min(ratio, 1))),
		timeStyle.Render(util.FormatDuration(m.duration))))

	b.WriteString("  " + m.statusLine(inner) + "\n")
	switch {
	case m.notice != "" && m.noticeErr:
		b.WriteString("  " + errorStyle.MaxWidth(inner).Render(m.notice) + "\n")
	case m.notice != "":
		b.WriteString("  " + noticeStyle.MaxWidth(inner).Render(m.notice) + "\n")
	default:
		b.WriteString("\n")
	}
	b.WriteString("  " + helpStyle.MaxWidth(inner).Render(helpText(m.drawerOpen)) + "\n")
	return b.String()
}

func (m Model) titleText() string {
	if m.metadata.Title != "" {
		return m.metadata.Title
	}
	if meta := m.session.Lyrics().Meta(); meta.Title != "" {
		return meta.Title
	}
	return "—"
}

// subtitleText prefers the audio tags and falls back to the lyric tags.
func (m Model) subtitleText() string {
	artist, album := m.metadata.Artist, m.metadata.Album
	meta := m.session.Lyrics().Meta()
	if artist == "" {
		artist = meta.Artist
	}
	if album == "" {
		album = meta.Album
	}
	switch {
	case artist != "" && album != "":
		return artist + " - " + album
	case artist != "":
		return artist
	default:
		return album
	}
}

func (m Model) statusLine(width int) string {
	icon, text := "▶", "playing"
	switch {
	case m.player == nil:
		icon, text = "■", "stopped"
	case m.paused:
		icon, text = "❚❚", "paused"
	}
	left := fmt.Sprintf("%s  %s  %d/%d", icon, text, m.queue.CurrentIndex()+1, m.queue.Len())
	if r := m.repeat.Icon(); r != "" {
		left += "  " + r
	}
	cfg := m.session.Config()
	viz := "viz off"
	if cfg.Enabled {
		viz = fmt.Sprintf("viz %s rise %s fall %s", cfg.Color, util.Percent(cfg.RiseSpeed), util.Percent(cfg.FallSpeed))
	}
	right := viz + "  " + renderVolumePercent(m.volume)
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 2)
	return statusStyle.Render(left + strings.Repeat(" ", gap) + right)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

// TitleFromPath names a library by its folder.
func TitleFromPath(dir string) string {
	return "lrcplay · " + filepath.Base(filepath.Clean(dir))
}
