package media

import (
	"path/filepath"
	"strings"
)

// LyricsExt is the extension of companion timed-text lyric files.
const LyricsExt = ".lrc"

var audioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
}

var playlistExts = map[string]bool{
	".m3u":  true,
	".m3u8": true,
	".pls":  true,
}

// IsAudioExt returns true if the extension is a playable audio format.
func IsAudioExt(ext string) bool {
	return audioExts[strings.ToLower(ext)]
}

// IsLyricsExt returns true for lyric document extensions.
func IsLyricsExt(ext string) bool {
	return strings.ToLower(ext) == LyricsExt
}

// IsPlaylistExt returns true if the extension is a supported playlist format.
func IsPlaylistExt(ext string) bool {
	return playlistExts[strings.ToLower(ext)]
}

// SupportedExtsList returns a human-readable list of playable formats.
func SupportedExtsList() string {
	return ".mp3, .wav, .flac, .ogg"
}

// CleanName strips the directory and extension from a file name.
func CleanName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
