package lyrics

import "math"

// Placeholder texts shown when no usable timed text exists.
const (
	EmptyText    = "Lyrics empty"
	NotFoundText = "No lyrics found"
	MissingText  = "No lyrics available"
)

// Line is a single timed lyric line.
type Line struct {
	Time float64 // seconds from track start
	Text string
}

// Meta holds the optional ID tags of a lyric document.
type Meta struct {
	Title  string
	Artist string
	Album  string
	By     string
}

// Track is an ordered, deduplicated list of lyric lines for one audio track.
// It is never modified after construction; a track change replaces it.
type Track struct {
	lines       []Line
	meta        Meta
	placeholder bool
}

func placeholderTrack(text string) *Track {
	return &Track{lines: []Line{{Time: 0, Text: text}}, placeholder: true}
}

// Missing returns the placeholder track used when an audio file has no
// companion lyric document.
func Missing() *Track {
	return placeholderTrack(MissingText)
}

// Len returns the number of lines.
func (t *Track) Len() int {
	if t == nil {
		return 0
	}
	return len(t.lines)
}

// Line returns the line at index i, or the zero Line if i is out of range.
func (t *Track) Line(i int) Line {
	if t == nil || i < 0 || i >= len(t.lines) {
		return Line{}
	}
	return t.lines[i]
}

// Lines returns a copy of all lines.
func (t *Track) Lines() []Line {
	if t == nil {
		return nil
	}
	out := make([]Line, len(t.lines))
	copy(out, t.lines)
	return out
}

// Meta returns the document ID tags.
func (t *Track) Meta() Meta {
	if t == nil {
		return Meta{}
	}
	return t.meta
}

// Placeholder reports whether the track is a single-line fallback.
func (t *Track) Placeholder() bool {
	return t == nil || t.placeholder
}

// ActiveIndex returns the index of the last line whose time is <= sec.
// When no line qualifies, line 0 is considered active, so the first line is
// highlighted even before its timestamp.
func (t *Track) ActiveIndex(sec float64) int {
	if t == nil || math.IsNaN(sec) {
		return 0
	}
	best := 0
	for i, l := range t.lines {
		if l.Time > sec {
			break
		}
		best = i
	}
	return best
}
