package ui

// RepeatMode selects what happens when a track ends.
type RepeatMode int

const (
	RepeatAll RepeatMode = iota // advance, wrapping at the end of the queue
	RepeatOne
)

// Next cycles to the next repeat mode.
func (r RepeatMode) Next() RepeatMode {
	if r == RepeatAll {
		return RepeatOne
	}
	return RepeatAll
}

// String returns the name of the repeat mode.
func (r RepeatMode) String() string {
	if r == RepeatOne {
		return "one"
	}
	return "all"
}

// Icon returns a visual indicator for the repeat mode.
func (r RepeatMode) Icon() string {
	if r == RepeatOne {
		return "[repeat one]"
	}
	return ""
}
