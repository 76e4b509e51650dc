package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/lrcplay/internal/config"
	"github.com/olivier-w/lrcplay/internal/lyrics"
	"github.com/olivier-w/lrcplay/internal/settings"
	"github.com/olivier-w/lrcplay/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logFile, err := tea.LogToFile(cfg.LogFile, "lrcplay")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := log.Default()

	store := openStore(cfg, logger)
	defer store.Close()

	opener := &playbackOpener{
		cfg:    cfg,
		store:  store,
		logger: logger,
		open:   ui.OpenPlayer,
	}
	if cfg.LyricsT2S {
		if conv, err := lyrics.NewT2SConverter(logger); err != nil {
			logger.Printf("Warning: %v", err)
		} else {
			opener.converter = conv
		}
	}

	var arg string
	if len(os.Args) > 1 {
		arg = os.Args[1]
	}

	program := tea.NewProgram(newStartupModel(opener, arg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore falls back to in-memory settings when the database is disabled
// or cannot be opened.
func openStore(cfg config.Config, logger *log.Logger) settings.Store {
	if !cfg.Persist {
		return settings.NewMemory()
	}
	store, err := settings.OpenSQLite(cfg.DBPath, logger)
	if err != nil {
		logger.Printf("Warning: %v, settings will not be saved", err)
		return settings.NewMemory()
	}
	return store
}
