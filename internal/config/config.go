// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process-level settings. User preferences such as the
// visualizer tuning live in the settings store instead.
type Config struct {
	DataDir    string
	DBFileName string
	DBPath     string
	LogFile    string
	FrameRate  int
	TimeUpdate time.Duration
	LyricsT2S  bool
	Watch      bool
	Persist    bool
}

const (
	appName = "lrcplay"

	dbFileName = "settings.db"
	logFile    = "lrcplay.log"
	frameRate  = 60
	timeUpdate = 250 * time.Millisecond

	maxFrameRate = 240
)

// Load reads .env (if present) and the LRCPLAY_* variables, applies defaults
// and makes sure the data directory exists.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DataDir:    os.Getenv("LRCPLAY_DATA_DIR"),
		DBFileName: os.Getenv("LRCPLAY_DB_FILE"),
		LogFile:    os.Getenv("LRCPLAY_LOG_FILE"),
		FrameRate:  parseIntOrDefault("LRCPLAY_FRAME_RATE", frameRate),
		TimeUpdate: parseDurationOrDefault("LRCPLAY_TIME_UPDATE", timeUpdate),
		LyricsT2S:  parseBoolOrDefault("LRCPLAY_LYRICS_T2S", false),
		Watch:      parseBoolOrDefault("LRCPLAY_WATCH", true),
		Persist:    parseBoolOrDefault("LRCPLAY_PERSIST", true),
	}

	if cfg.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = os.TempDir()
		}
		cfg.DataDir = filepath.Join(base, appName)
	}
	if cfg.DBFileName == "" {
		cfg.DBFileName = dbFileName
	}
	if cfg.LogFile == "" {
		cfg.LogFile = logFile
	}
	if !filepath.IsAbs(cfg.LogFile) {
		cfg.LogFile = filepath.Join(cfg.DataDir, cfg.LogFile)
	}
	if cfg.FrameRate < 1 || cfg.FrameRate > maxFrameRate {
		log.Printf("Warning: frame rate %d out of range, using %d", cfg.FrameRate, frameRate)
		cfg.FrameRate = frameRate
	}
	if cfg.TimeUpdate <= 0 {
		cfg.TimeUpdate = timeUpdate
	}
	cfg.DBPath = filepath.Join(cfg.DataDir, cfg.DBFileName)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return Config{}, fmt.Errorf("failed to create data directory %s: %w", cfg.DataDir, err)
	}
	return cfg, nil
}

// FrameInterval is the delay between visualizer frames.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

func parseDurationOrDefault(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Warning: could not parse %s=%q, using %v: %v", key, s, def, err)
		return def
	}
	return d
}

func parseIntOrDefault(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Warning: could not parse %s=%q, using %d: %v", key, s, def, err)
		return def
	}
	return n
}

func parseBoolOrDefault(key string, def bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		log.Printf("Warning: could not parse %s=%q, using %v: %v", key, s, def, err)
		return def
	}
	return b
}
