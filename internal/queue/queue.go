package queue

// TrackState represents the playback state of a track.
type TrackState int

const (
	Pending TrackState = iota
	Playing
	Done
	Failed
)

// Track is a single item in the play queue.
type Track struct {
	Title      string
	Path       string
	LyricsPath string
	State      TrackState
}

// Queue is an ordered list of tracks with a cursor.
// It is only mutated from Bubbletea's single-threaded Update loop.
type Queue struct {
	tracks  []Track
	current int
}

// New creates a Queue from the given tracks, positioned on the first one.
func New(tracks []Track) *Queue {
	return &Queue{tracks: tracks}
}

// Current returns a pointer to the current track, or nil if empty.
func (q *Queue) Current() *Track {
	return q.Track(q.current)
}

// Len returns the total number of tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// CurrentIndex returns the zero-based index of the current track.
func (q *Queue) CurrentIndex() int {
	return q.current
}

// SetCurrentIndex moves the cursor. Out-of-range indices are ignored.
func (q *Queue) SetCurrentIndex(i int) {
	if i >= 0 && i < len(q.tracks) {
		q.current = i
	}
}

// Next moves to the following track, wrapping to the first after the last.
func (q *Queue) Next() *Track {
	return q.step(1)
}

// Previous moves to the preceding track, wrapping to the last before the first.
func (q *Queue) Previous() *Track {
	return q.step(-1)
}

func (q *Queue) step(delta int) *Track {
	n := len(q.tracks)
	if n == 0 {
		return nil
	}
	q.current = ((q.current+delta)%n + n) % n
	return &q.tracks[q.current]
}

// Track returns a pointer to the track at the given index, or nil if out of range.
func (q *Queue) Track(i int) *Track {
	if i < 0 || i >= len(q.tracks) {
		return nil
	}
	return &q.tracks[i]
}

// Tracks returns a copy of all tracks.
func (q *Queue) Tracks() []Track {
	out := make([]Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}

// SetTrackState sets the state of the track at the given index.
func (q *Queue) SetTrackState(i int, state TrackState) {
	if i >= 0 && i < len(q.tracks) {
		q.tracks[i].State = state
	}
}

// Replace swaps in a new track list. If the current track is still present
// (matched by path) the cursor follows it and keeps its state; otherwise the
// cursor is clamped into range. Reports whether the current track survived.
func (q *Queue) Replace(tracks []Track) bool {
	cur := q.Current()
	q.tracks = tracks
	if cur != nil {
		for i := range q.tracks {
			if q.tracks[i].Path == cur.Path {
				q.tracks[i].State = cur.State
				q.current = i
				return true
			}
		}
	}
	if q.current >= len(q.tracks) {
		q.current = len(q.tracks) - 1
	}
	if q.current < 0 {
		q.current = 0
	}
	return false
}
