package player

import (
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"

	"github.com/olivier-w/lrcplay/internal/media"
)

// Metadata holds song information.
type Metadata struct {
	Title  string
	Artist string
	Album  string
}

// ReadMetadata reads ID3v2 tags from MP3 files. Anything without a usable
// title falls back to the file name.
func ReadMetadata(path string) Metadata {
	var m Metadata
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		if tag, err := id3v2.Open(path, id3v2.Options{Parse: true}); err == nil {
			m = Metadata{
				Title:  strings.TrimSpace(tag.Title()),
				Artist: strings.TrimSpace(tag.Artist()),
				Album:  strings.TrimSpace(tag.Album()),
			}
			tag.Close()
		}
	}
	if m.Title == "" {
		m.Title = media.CleanName(path)
	}
	return m
}
