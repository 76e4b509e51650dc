package ui

import "github.com/charmbracelet/harmonica"

// lyricScroll animates the lyric pane towards the active line.
type lyricScroll struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
}

func newLyricScroll(fps int) lyricScroll {
	return lyricScroll{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.9)}
}

// SetTarget moves the scroll goal to line index i.
func (s *lyricScroll) SetTarget(i int) {
	s.target = float64(i)
}

// Jump snaps to line i without animating.
func (s *lyricScroll) Jump(i int) {
	s.target = float64(i)
	s.pos = s.target
	s.vel = 0
}

// Step advances the animation by one frame and returns the position.
func (s *lyricScroll) Step() float64 {
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
	if d := s.pos - s.target; d < 0.001 && d > -0.001 && s.vel < 0.001 && s.vel > -0.001 {
		s.pos, s.vel = s.target, 0
	}
	return s.pos
}

// Settled reports whether the animation is at rest.
func (s *lyricScroll) Settled() bool {
	return s.pos == s.target && s.vel == 0
}
