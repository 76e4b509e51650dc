package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/lrcplay/internal/media"
)

// BrowserResult holds the outcome of the file browser.
type BrowserResult struct {
	Path      string
	Cancelled bool
}

// BrowserSelectedMsg is sent by an embedded browser when a file, playlist or
// folder is chosen.
type BrowserSelectedMsg struct {
	Path string
}

// BrowserCancelledMsg is sent by an embedded browser when the user quits.
type BrowserCancelledMsg struct{}

type fileItem struct {
	name   string
	ext    string
	lyrics bool
}

func (i fileItem) Title() string { return i.name }
func (i fileItem) Description() string {
	switch {
	case media.IsPlaylistExt(i.ext):
		return i.ext + " playlist"
	case i.lyrics:
		return i.ext + " · lyrics"
	}
	return i.ext
}
func (i fileItem) FilterValue() string { return i.name }

type dirItem struct{ name string }

func (i dirItem) Title() string       { return i.name + "/" }
func (i dirItem) Description() string { return "folder" }
func (i dirItem) FilterValue() string { return i.name }

type parentItem struct{}

func (parentItem) Title() string       { return "../" }
func (parentItem) Description() string { return "parent folder" }
func (parentItem) FilterValue() string { return ".." }

type folderItem struct{ songs int }

func (folderItem) Title() string         { return "Play this folder" }
func (i folderItem) Description() string { return fmt.Sprintf("%d songs", i.songs) }
func (folderItem) FilterValue() string   { return "play" }

type pathItem struct{}

func (pathItem) Title() string       { return "Open path..." }
func (pathItem) Description() string { return "type a file, playlist or folder" }
func (pathItem) FilterValue() string { return "path" }

// BrowserModel is the Bubbletea model for the file browser screen.
type BrowserModel struct {
	dir       string
	list      list.Model
	input     textinput.Model
	pathMode  bool
	embedded  bool
	result    *BrowserResult
	err       error
	listW     int
	listH     int
	delegate  list.DefaultDelegate
	lastError string
}

// NewBrowser creates a standalone browser rooted at the current directory.
// It quits the program when a selection is made.
func NewBrowser() BrowserModel {
	return newBrowser(".", false)
}

// NewEmbeddedBrowser creates a browser that reports its selection with
// BrowserSelectedMsg and BrowserCancelledMsg instead of quitting.
func NewEmbeddedBrowser() BrowserModel {
	return newBrowser(".", true)
}

func newBrowser(dir string, embedded bool) BrowserModel {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	ti := textinput.New()
	ti.Placeholder = "~/Music/album"
	ti.CharLimit = 4096
	ti.Width = 60

	m := BrowserModel{
		input:    ti,
		embedded: embedded,
		listW:    80,
		listH:    20,
		delegate: delegate,
	}
	if err := m.open(dir); err != nil {
		m.err = err
	}
	return m
}

// open lists dir, replacing the current listing.
func (m *BrowserModel) open(dir string) error {
	items, err := browserItems(dir)
	if err != nil {
		return fmt.Errorf("cannot read directory: %w", err)
	}
	l := list.New(items, m.delegate, m.listW, m.listH)
	l.Title = "lrcplay · " + displayDir(dir)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle
	m.list = l
	m.dir = dir
	return nil
}

func displayDir(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

func browserItems(dir string) ([]list.Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	lyrics := make(map[string]bool)
	for _, e := range entries {
		if !e.IsDir() && media.IsLyricsExt(strings.ToLower(filepath.Ext(e.Name()))) {
			lyrics[strings.ToLower(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))] = true
		}
	}

	var dirs []string
	var files []fileItem
	songs := 0
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			dirs = append(dirs, name)
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		switch {
		case media.IsAudioExt(ext):
			songs++
			files = append(files, fileItem{name: stem, ext: filepath.Ext(name), lyrics: lyrics[strings.ToLower(stem)]})
		case media.IsPlaylistExt(ext):
			files = append(files, fileItem{name: stem, ext: filepath.Ext(name)})
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return strings.ToLower(dirs[i]) < strings.ToLower(dirs[j]) })
	sort.Slice(files, func(i, j int) bool { return strings.ToLower(files[i].name) < strings.ToLower(files[j].name) })

	var items []list.Item
	if songs > 0 {
		items = append(items, folderItem{songs: songs})
	}
	items = append(items, parentItem{})
	for _, d := range dirs {
		items = append(items, dirItem{name: d})
	}
	for _, f := range files {
		items = append(items, f)
	}
	return append(items, pathItem{}), nil
}

// HasError returns true if the browser could not be initialized.
func (m BrowserModel) HasError() bool {
	return m.err != nil
}

// Error returns the initialization error, if any.
func (m BrowserModel) Error() error {
	return m.err
}

// Result returns the browser result after the program finishes.
func (m BrowserModel) Result() BrowserResult {
	if m.result != nil {
		return *m.result
	}
	return BrowserResult{Cancelled: true}
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.SetWindowTitle("lrcplay")
}

func (m BrowserModel) selected(path string) (tea.Model, tea.Cmd) {
	if m.embedded {
		return m, func() tea.Msg { return BrowserSelectedMsg{Path: path} }
	}
	m.result = &BrowserResult{Path: path}
	return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

func (m BrowserModel) cancelled() (tea.Model, tea.Cmd) {
	if m.embedded {
		return m, func() tea.Msg { return BrowserCancelledMsg{} }
	}
	m.result = &BrowserResult{Cancelled: true}
	return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.pathMode {
		return m.updatePathInput(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't intercept keys when filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case pathItem:
				m.pathMode = true
				m.input.Focus()
				return m, tea.Batch(textinput.Blink, tea.SetWindowTitle("lrcplay · open path"))
			case folderItem:
				return m.selected(m.dir)
			case fileItem:
				return m.selected(filepath.Join(m.dir, item.name+item.ext))
			case dirItem:
				return m.navigate(filepath.Join(m.dir, item.name))
			case parentItem:
				return m.navigate(filepath.Join(m.dir, ".."))
			}
		case "backspace", "h":
			return m.navigate(filepath.Join(m.dir, ".."))
		case "q", "esc", "ctrl+c":
			return m.cancelled()
		}

	case tea.WindowSizeMsg:
		m.listW, m.listH = msg.Width, msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) navigate(dir string) (tea.Model, tea.Cmd) {
	if err := m.open(dir); err != nil {
		m.lastError = err.Error()
		return m, nil
	}
	m.lastError = ""
	return m, nil
}

func (m BrowserModel) updatePathInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			path := expandHome(strings.TrimSpace(m.input.Value()))
			if path == "" {
				break
			}
			if _, err := os.Stat(path); err != nil {
				m.lastError = err.Error()
				return m, nil
			}
			m.pathMode = false
			m.input.Reset()
			m.input.Blur()
			return m.selected(path)
		case "esc":
			m.pathMode = false
			m.lastError = ""
			m.input.Reset()
			m.input.Blur()
			return m, tea.SetWindowTitle("lrcplay")
		case "ctrl+c":
			return m.cancelled()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func (m BrowserModel) View() string {
	if m.pathMode {
		s := "\n"
		s += "  " + headerStyle.Render("lrcplay") + "\n"
		s += "\n"
		s += "  " + statusStyle.Render("Open path:") + "\n"
		s += "  " + m.input.View() + "\n"
		if m.lastError != "" {
			s += "  " + errorStyle.Render(m.lastError) + "\n"
		}
		s += "\n"
		s += "  " + helpStyle.Render("enter confirm  esc back  ctrl+c quit") + "\n"
		return s
	}
	if m.lastError != "" {
		return "  " + errorStyle.Render(m.lastError) + "\n" + m.list.View()
	}
	return m.list.View()
}
