package ui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func helpText(drawerOpen bool) string {
	if drawerOpen {
		return "↑/↓ select  enter play  tab close  q quit"
	}
	return "space pause  n/p track  ←/→ seek  +/- volume  tab playlist  v viz  [ ] rise  { } fall  < > height  c colour  r repeat  q quit"
}
