package media

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ReadPlaylist returns the local paths listed in an .m3u/.m3u8/.pls file.
// Relative entries resolve against the playlist directory; URLs and comments
// are skipped.
func ReadPlaylist(path string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsPlaylistExt(ext) {
		return nil, fmt.Errorf("unsupported playlist format %s", ext)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading playlist: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("playlist is not valid UTF-8")
	}

	entry := m3uEntry
	if ext == ".pls" {
		entry = plsEntry
	}

	baseDir := filepath.Dir(abs)
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		val, ok := entry(strings.TrimSpace(sc.Text()))
		if !ok || strings.Contains(val, "://") {
			continue
		}
		out = append(out, resolveEntry(val, baseDir))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning playlist: %w", err)
	}
	return out, nil
}

func m3uEntry(line string) (string, bool) {
	if line == "" || strings.HasPrefix(line, "#") {
		return "", false
	}
	return strings.Trim(line, `"`), true
}

// plsEntry accepts FileN=path lines.
func plsEntry(line string) (string, bool) {
	key, val, ok := strings.Cut(line, "=")
	if !ok {
		return "", false
	}
	key = strings.TrimSpace(key)
	val = strings.TrimSpace(val)
	num, found := strings.CutPrefix(key, "File")
	if !found || num == "" || val == "" {
		return "", false
	}
	for _, r := range num {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return val, true
}

func resolveEntry(raw, baseDir string) string {
	p := filepath.Clean(filepath.FromSlash(raw))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
