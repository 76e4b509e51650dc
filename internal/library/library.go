// Package library loads a folder of audio files and their companion lyrics.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olivier-w/lrcplay/internal/media"
)

// Song is an audio file with its optional .lrc sibling.
type Song struct {
	Name       string
	Path       string
	LyricsPath string
}

// Scan lists the playable files directly inside dir. Subdirectories are not
// descended into.
func Scan(dir string) ([]Song, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading folder: %w", err)
	}

	lyricsByName := make(map[string]string)
	var audio []os.DirEntry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		switch {
		case media.IsLyricsExt(ext):
			lyricsByName[stemKey(e.Name())] = filepath.Join(dir, e.Name())
		case media.IsAudioExt(ext):
			audio = append(audio, e)
		}
	}

	songs := make([]Song, 0, len(audio))
	for _, e := range audio {
		path := filepath.Join(dir, e.Name())
		songs = append(songs, Song{
			Name:       media.CleanName(path),
			Path:       path,
			LyricsPath: lyricsByName[stemKey(e.Name())],
		})
	}
	sortSongs(songs)
	return songs, nil
}

// FromPlaylist builds songs from an .m3u/.pls file. Missing entries and
// non-audio entries are skipped.
func FromPlaylist(path string) ([]Song, error) {
	paths, err := media.ReadPlaylist(path)
	if err != nil {
		return nil, err
	}
	songs := make([]Song, 0, len(paths))
	for _, p := range paths {
		if !media.IsAudioExt(filepath.Ext(p)) {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		songs = append(songs, Song{
			Name:       media.CleanName(p),
			Path:       p,
			LyricsPath: siblingLyrics(p),
		})
	}
	return songs, nil
}

func siblingLyrics(audioPath string) string {
	dir := filepath.Dir(audioPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	want := stemKey(filepath.Base(audioPath))
	for _, e := range entries {
		if !e.IsDir() && media.IsLyricsExt(filepath.Ext(e.Name())) && stemKey(e.Name()) == want {
			return filepath.Join(dir, e.Name())
		}
	}
	return ""
}

func stemKey(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
}

func sortSongs(songs []Song) {
	sort.SliceStable(songs, func(i, j int) bool {
		a := strings.ToLower(filepath.Base(songs[i].Path))
		b := strings.ToLower(filepath.Base(songs[j].Path))
		if a == b {
			return songs[i].Path < songs[j].Path
		}
		return a < b
	})
}
