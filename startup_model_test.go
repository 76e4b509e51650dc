package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/olivier-w/lrcplay/internal/config"
	"github.com/olivier-w/lrcplay/internal/player"
	"github.com/olivier-w/lrcplay/internal/settings"
	"github.com/olivier-w/lrcplay/internal/ui"
)

type silentPlayback struct{ done chan struct{} }

func (p *silentPlayback) Position() time.Duration  { return 0 }
func (p *silentPlayback) Duration() time.Duration  { return time.Minute }
func (p *silentPlayback) TogglePause()             {}
func (p *silentPlayback) Paused() bool             { return false }
func (p *silentPlayback) Seek(time.Duration) error { return nil }
func (p *silentPlayback) Volume() float64          { return 1 }
func (p *silentPlayback) SetVolume(float64)        {}
func (p *silentPlayback) Done() <-chan struct{}    { return p.done }
func (p *silentPlayback) Close()                   {}

func testOpener(t *testing.T) (*playbackOpener, *[]string) {
	t.Helper()
	var opened []string
	return &playbackOpener{
		cfg:   config.Config{FrameRate: 30, TimeUpdate: time.Second},
		store: settings.NewMemory(),
		open: func(path string, _ player.Options) (ui.Playback, error) {
			opened = append(opened, path)
			return &silentPlayback{done: make(chan struct{})}, nil
		},
	}, &opened
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestStartupModelSelectionEntersOpeningPhase(t *testing.T) {
	opener, _ := testOpener(t)
	model, cmd := newStartupModel(opener, "").Update(ui.BrowserSelectedMsg{Path: "song.mp3"})
	if cmd == nil {
		t.Fatal("expected opening command")
	}

	startup, ok := model.(startupModel)
	if !ok {
		t.Fatalf("expected startupModel, got %T", model)
	}
	if startup.phase != phaseOpening || startup.arg != "song.mp3" {
		t.Fatalf("expected phaseOpening for song.mp3, got %v %q", startup.phase, startup.arg)
	}
	if !strings.Contains(startup.View(), "Opening song.mp3") {
		t.Fatalf("unexpected opening view %q", startup.View())
	}
}

func TestStartupModelWithArgumentOpensImmediately(t *testing.T) {
	opener, _ := testOpener(t)
	m := newStartupModel(opener, "album")
	if m.phase != phaseOpening {
		t.Fatalf("expected phaseOpening, got %v", m.phase)
	}
	if m.Init() == nil {
		t.Fatal("expected init commands")
	}
}

func TestStartupModelErrorReturnsToBrowsePhase(t *testing.T) {
	opener, _ := testOpener(t)
	m := newStartupModel(opener, "")
	m.phase = phaseOpening

	model, cmd := m.Update(startupResolvedMsg{err: errBoom{}})
	if cmd != nil {
		t.Fatal("expected no command on error return")
	}

	startup := model.(startupModel)
	if startup.phase != phaseBrowse {
		t.Fatalf("expected phaseBrowse, got %v", startup.phase)
	}
	if startup.errMsg != "boom" {
		t.Fatalf("expected error message, got %q", startup.errMsg)
	}
}

func TestOpenerBuildsFolderQueue(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.mp3", "a.flac", "a.lrc", "cover.jpg")
	opener, opened := testOpener(t)

	model, start, err := opener.build(dir)
	if err != nil {
		t.Fatalf("build() error = %v", err)
	}
	if start == nil {
		t.Fatal("expected start command")
	}
	if len(*opened) != 1 || filepath.Base((*opened)[0]) != "a.flac" {
		t.Fatalf("expected first song opened, got %v", *opened)
	}
	if !strings.Contains(model.View(), "1/2") {
		t.Fatalf("expected two-track queue in view:\n%s", model.View())
	}
}

func TestOpenerStartsAtSelectedFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.mp3", "b.mp3", "c.mp3")
	opener, opened := testOpener(t)

	if _, _, err := opener.build(filepath.Join(dir, "b.mp3")); err != nil {
		t.Fatalf("build() error = %v", err)
	}
	if filepath.Base((*opened)[0]) != "b.mp3" {
		t.Fatalf("expected b.mp3 opened, got %v", *opened)
	}
}

func TestResolveSelectionPlaylist(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "one.mp3", "two.ogg")
	list := filepath.Join(dir, "mix.m3u")
	if err := os.WriteFile(list, []byte("#EXTM3U\ntwo.ogg\nmissing.mp3\none.mp3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	sel, err := resolveSelection(list)
	if err != nil {
		t.Fatalf("resolveSelection() error = %v", err)
	}
	if len(sel.songs) != 2 || sel.songs[0].Name != "two" || sel.libraryDir != "" {
		t.Fatalf("unexpected selection %#v", sel)
	}
}

func TestResolveSelectionErrors(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "notes.txt")

	for _, arg := range []string{
		dir,
		filepath.Join(dir, "notes.txt"),
		filepath.Join(dir, "missing.mp3"),
	} {
		if _, err := resolveSelection(arg); err == nil {
			t.Errorf("resolveSelection(%q): expected error", arg)
		}
	}
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
