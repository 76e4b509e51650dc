package lyrics

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// Converter rewrites lyric text, e.g. traditional to simplified Chinese.
type Converter interface {
	Convert(text string) (string, error)
}

// LoadOptions controls how companion lyric files are read.
type LoadOptions struct {
	Converter Converter   // optional
	Logger    *log.Logger // optional, reports conversion failures
}

// Load reads and parses the lyric document at path. An empty path or a
// missing file yields the Missing placeholder with a nil error.
func Load(path string, opts LoadOptions) (*Track, error) {
	if path == "" {
		return Missing(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Missing(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading lyrics: %w", err)
	}

	text, err := decodeText(data)
	if err != nil {
		return nil, fmt.Errorf("decoding lyrics %s: %w", path, err)
	}
	if opts.Converter != nil {
		if out, err := opts.Converter.Convert(text); err != nil {
			if opts.Logger != nil {
				opts.Logger.Printf("converting lyrics %s: %v", path, err)
			}
		} else {
			text = out
		}
	}
	return Parse(text), nil
}

// decodeText returns data as UTF-8. Content that is not valid UTF-8 is
// assumed to be GB18030, a superset of GBK.
func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data), nil
	}
	r := transform.NewReader(bytes.NewReader(data), simplifiedchinese.GB18030.NewDecoder())
	out, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
