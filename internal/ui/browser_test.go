package ui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func selectItem(t *testing.T, m BrowserModel, title string) BrowserModel {
	t.Helper()
	for i, item := range m.list.Items() {
		if item.(interface{ Title() string }).Title() == title {
			m.list.Select(i)
			return m
		}
	}
	t.Fatalf("no browser item titled %q", title)
	return m
}

func TestEmbeddedBrowserFileSelectionReturnsMessage(t *testing.T) {
	chdirTemp(t, map[string]string{
		"song.mp3": "data",
		"song.lrc": "[00:01.00]hi",
	})

	m := selectItem(t, NewEmbeddedBrowser(), "song")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected selection command")
	}

	msg := cmd()
	selected, ok := msg.(BrowserSelectedMsg)
	if !ok {
		t.Fatalf("expected BrowserSelectedMsg, got %T", msg)
	}
	if selected.Path != "song.mp3" {
		t.Fatalf("expected song.mp3, got %q", selected.Path)
	}
}

func TestEmbeddedBrowserFolderSelectionReturnsDirectory(t *testing.T) {
	chdirTemp(t, map[string]string{
		"a.mp3": "data",
		"b.wav": "data",
	})

	m := NewEmbeddedBrowser()
	item, ok := m.list.Items()[0].(folderItem)
	if !ok || item.songs != 2 {
		t.Fatalf("expected play-folder entry first, got %#v", m.list.Items()[0])
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	selected, ok := cmd().(BrowserSelectedMsg)
	if !ok || selected.Path != "." {
		t.Fatalf("expected current folder selection, got %#v", cmd())
	}
}

func TestEmbeddedBrowserNavigatesIntoFolders(t *testing.T) {
	chdirTemp(t, map[string]string{
		"album/track.flac": "data",
		"notes.txt":        "skip",
	})

	m := NewEmbeddedBrowser()
	for _, item := range m.list.Items() {
		if _, ok := item.(fileItem); ok {
			t.Fatalf("expected non-audio files hidden, got %#v", item)
		}
	}
	m = selectItem(t, m, "album/")
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected navigation without command")
	}
	m = model.(BrowserModel)
	if m.dir != "album" {
		t.Fatalf("expected to enter album, got %q", m.dir)
	}

	m = selectItem(t, m, "track")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	selected := cmd().(BrowserSelectedMsg)
	if selected.Path != filepath.Join("album", "track.flac") {
		t.Fatalf("unexpected path %q", selected.Path)
	}
}

func TestEmbeddedBrowserPathEntryReturnsMessage(t *testing.T) {
	chdirTemp(t, map[string]string{"list.m3u": "a.mp3\n"})

	m := NewEmbeddedBrowser()
	m.pathMode = true
	m.input.SetValue("list.m3u")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected path selection command")
	}
	selected, ok := cmd().(BrowserSelectedMsg)
	if !ok || selected.Path != "list.m3u" {
		t.Fatalf("unexpected selection %#v", cmd())
	}
}

func TestEmbeddedBrowserPathEntryRejectsMissingPath(t *testing.T) {
	chdirTemp(t, map[string]string{})

	m := NewEmbeddedBrowser()
	m.pathMode = true
	m.input.SetValue("missing.mp3")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected no command for missing path")
	}
	if model.(BrowserModel).lastError == "" {
		t.Fatal("expected error for missing path")
	}
}

func TestEmbeddedBrowserCancelReturnsMessage(t *testing.T) {
	chdirTemp(t, map[string]string{})

	m := NewEmbeddedBrowser()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected cancel command")
	}

	if _, ok := cmd().(BrowserCancelledMsg); !ok {
		t.Fatalf("expected BrowserCancelledMsg, got %T", cmd())
	}
}

func TestStandaloneBrowserSelectionStoresResult(t *testing.T) {
	chdirTemp(t, map[string]string{
		"song.mp3": "data",
	})

	m := selectItem(t, NewBrowser(), "song")

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(BrowserModel)

	result := m.Result()
	if result.Path != "song.mp3" || result.Cancelled {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestBrowserMarksSongsWithLyrics(t *testing.T) {
	chdirTemp(t, map[string]string{
		"One.mp3":  "data",
		"one.lrc":  "",
		"Two.ogg":  "data",
		"mix.m3u8": "",
	})

	m := NewEmbeddedBrowser()
	got := map[string]string{}
	for _, item := range m.list.Items() {
		if f, ok := item.(fileItem); ok {
			got[f.name] = f.Description()
		}
	}
	want := map[string]string{"One": ".mp3 · lyrics", "Two": ".ogg", "mix": ".m3u8 playlist"}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("item %s: description %q, want %q (all %v)", k, got[k], v, got)
		}
	}
}

func chdirTemp(t *testing.T, files map[string]string) {
	t.Helper()

	dir := t.TempDir()
	for name, contents := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	t.Chdir(dir)
}
