package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/lrcplay/internal/config"
	"github.com/olivier-w/lrcplay/internal/library"
	"github.com/olivier-w/lrcplay/internal/lyrics"
	"github.com/olivier-w/lrcplay/internal/media"
	"github.com/olivier-w/lrcplay/internal/queue"
	"github.com/olivier-w/lrcplay/internal/session"
	"github.com/olivier-w/lrcplay/internal/settings"
	"github.com/olivier-w/lrcplay/internal/ui"
)

// playbackOpener turns a command-line or browser selection into a running
// player screen.
type playbackOpener struct {
	cfg       config.Config
	store     settings.Store
	logger    *log.Logger
	converter lyrics.Converter
	open      ui.OpenFunc
}

// selection is what a path resolves to before anything is opened.
type selection struct {
	songs      []library.Song
	start      int
	libraryDir string // watched folder, empty for playlists
	name       string
}

func resolveSelection(arg string) (selection, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return selection{}, err
	}

	if info.IsDir() {
		songs, err := library.Scan(arg)
		if err != nil {
			return selection{}, err
		}
		if len(songs) == 0 {
			return selection{}, fmt.Errorf("%s contains no playable files (supported: %s)", arg, media.SupportedExtsList())
		}
		return selection{songs: songs, libraryDir: arg, name: ui.TitleFromPath(arg)}, nil
	}

	ext := filepath.Ext(arg)
	switch {
	case media.IsPlaylistExt(ext):
		songs, err := library.FromPlaylist(arg)
		if err != nil {
			return selection{}, err
		}
		if len(songs) == 0 {
			return selection{}, fmt.Errorf("playlist contains no playable entries")
		}
		return selection{songs: songs, name: "lrcplay · " + media.CleanName(arg)}, nil

	case media.IsAudioExt(ext):
		abs, err := filepath.Abs(arg)
		if err != nil {
			return selection{}, err
		}
		dir := filepath.Dir(abs)
		songs, err := library.Scan(dir)
		if err != nil {
			return selection{}, err
		}
		for i, s := range songs {
			if s.Path == abs {
				return selection{songs: songs, start: i, libraryDir: dir, name: ui.TitleFromPath(dir)}, nil
			}
		}
		return selection{}, fmt.Errorf("%s not found in its folder", arg)
	}
	return selection{}, fmt.Errorf("unsupported format %s (supported: %s)", ext, media.SupportedExtsList())
}

// build resolves arg and starts playing it.
func (o *playbackOpener) build(arg string) (ui.Model, tea.Cmd, error) {
	sel, err := resolveSelection(arg)
	if err != nil {
		return ui.Model{}, nil, err
	}

	q := queue.New(ui.TracksFromSongs(sel.songs))
	q.SetCurrentIndex(sel.start)
	s, err := session.New(session.Options{
		Store:  o.store,
		Queue:  q,
		Logger: o.logger,
		Lyrics: lyrics.LoadOptions{Converter: o.converter},
	})
	if err != nil {
		return ui.Model{}, nil, err
	}

	var w *library.Watcher
	if o.cfg.Watch && sel.libraryDir != "" {
		w, err = library.Watch(sel.libraryDir, o.logger)
		if err != nil {
			o.logger.Printf("not watching %s: %v", sel.libraryDir, err)
			w = nil
		}
	}

	m := ui.New(ui.Options{
		Session:       s,
		Open:          o.open,
		LibraryDir:    sel.libraryDir,
		Watcher:       w,
		Logger:        o.logger,
		FrameRate:     o.cfg.FrameRate,
		FrameInterval: o.cfg.FrameInterval(),
		TimeUpdate:    o.cfg.TimeUpdate,
		Name:          sel.name,
	})
	m, cmd := m.Start()
	return m, cmd, nil
}
