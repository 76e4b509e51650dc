package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/lrcplay/internal/library"
	"github.com/olivier-w/lrcplay/internal/lyrics"
	"github.com/olivier-w/lrcplay/internal/queue"
	"github.com/olivier-w/lrcplay/internal/session"
)

type frameMsg time.Time
type timeUpdateMsg time.Time

type playbackEndedMsg struct {
	player Playback
}

type lyricsLoadedMsg struct {
	seq    int
	lyrics *lyrics.Track
}

type noticeExpiredMsg struct {
	seq int
}

type libraryChangedMsg struct{}

func frameCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func timeUpdateCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return timeUpdateMsg(t)
	})
}

func checkDone(p Playback) tea.Cmd {
	return func() tea.Msg {
		<-p.Done()
		return playbackEndedMsg{player: p}
	}
}

func loadLyricsCmd(s *session.Session, track queue.Track, seq int) tea.Cmd {
	return func() tea.Msg {
		return lyricsLoadedMsg{seq: seq, lyrics: s.ReadLyrics(track)}
	}
}

func noticeExpiryCmd(seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func waitLibraryCmd(w *library.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return nil
		}
		return libraryChangedMsg{}
	}
}
