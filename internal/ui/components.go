package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/lrcplay/internal/lyrics"
	"github.com/olivier-w/lrcplay/internal/queue"
)

func renderVolumePercent(vol float64) string {
	return fmt.Sprintf("vol %d%%", int(vol*100+0.5))
}

// renderLyrics draws height rows of lyrics with the line at scroll position
// pos on the middle row.
func renderLyrics(t *lyrics.Track, active int, pos float64, width, height int) string {
	if height <= 0 || width <= 0 {
		return ""
	}
	center := (height - 1) / 2
	rows := make([]string, height)
	for r := range rows {
		i := int(math.Round(float64(r-center) + pos))
		if i < 0 || i >= t.Len() {
			continue
		}
		rows[r] = centerLine(lyricStyle(t, i, active), t.Line(i).Text, width)
	}
	return strings.Join(rows, "\n")
}

func lyricStyle(t *lyrics.Track, i, active int) lipgloss.Style {
	if t.Placeholder() {
		return nearLyricStyle
	}
	switch d := i - active; {
	case d == 0:
		return activeLyricStyle
	case d >= -2 && d <= 2:
		return nearLyricStyle
	default:
		return farLyricStyle
	}
}

func centerLine(style lipgloss.Style, text string, width int) string {
	line := style.MaxWidth(width).Render(text)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, line)
}

// renderLoading draws a single centered status row.
func renderLoading(label string, width, height int) string {
	if height <= 0 {
		return ""
	}
	rows := make([]string, height)
	rows[(height-1)/2] = lipgloss.PlaceHorizontal(width, lipgloss.Center, label)
	return strings.Join(rows, "\n")
}

// renderDrawer lists the queue, keeping the cursor row in view.
func renderDrawer(tracks []queue.Track, current, cursor, width, height int) string {
	if height <= 0 {
		return ""
	}
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	var b strings.Builder
	for i := start; i < len(tracks) && i < start+height; i++ {
		if i > start {
			b.WriteByte('\n')
		}
		prefix := "  "
		if i == current {
			prefix = "▶ "
		}
		mark := ""
		if tracks[i].LyricsPath != "" {
			mark = " ♪"
		}
		if tracks[i].State == queue.Failed {
			mark += " ✗"
		}
		text := prefix + tracks[i].Title + mark
		style := statusStyle
		switch {
		case i == cursor:
			style = drawerCursorStyle
		case i == current:
			style = drawerCurrentStyle
		}
		b.WriteString(style.MaxWidth(width).Render(text))
	}
	return b.String()
}
