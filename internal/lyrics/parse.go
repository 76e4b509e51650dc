package lyrics

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	timeTagRe = regexp.MustCompile(`\[(\d{1,2}):(\d{2})(?:\.(\d+))?\]`)
	idTagRe   = regexp.MustCompile(`^\[(ti|ar|al|by):([^\]]*)\]$`)
)

// Parse converts an LRC document into a Track. Malformed lines are skipped;
// Parse never fails. An empty document yields the EmptyText placeholder and a
// document without any usable timed line yields the NotFoundText placeholder.
func Parse(doc string) *Track {
	if doc == "" {
		return placeholderTrack(EmptyText)
	}
	doc = strings.TrimPrefix(doc, "\uFEFF")

	var (
		lines []Line
		meta  Meta
		seen  = make(map[Line]struct{})
	)
	for _, raw := range strings.Split(doc, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		tags := timeTagRe.FindAllStringSubmatch(raw, -1)
		if len(tags) == 0 {
			parseIDTag(raw, &meta)
			continue
		}

		text := strings.TrimSpace(timeTagRe.ReplaceAllString(raw, ""))
		if text == "" {
			continue
		}

		for _, tag := range tags {
			l := Line{Time: tagSeconds(tag[1], tag[2], tag[3]), Text: text}
			if _, dup := seen[l]; dup {
				continue
			}
			seen[l] = struct{}{}
			lines = append(lines, l)
		}
	}

	if len(lines) == 0 {
		t := placeholderTrack(NotFoundText)
		t.meta = meta
		return t
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Time < lines[j].Time })
	return &Track{lines: lines, meta: meta}
}

// tagSeconds converts the captured groups of a [mm:ss.fff] tag to seconds.
// The fraction is padded or truncated to millisecond precision.
func tagSeconds(min, sec, frac string) float64 {
	m, _ := strconv.Atoi(min)
	s, _ := strconv.Atoi(sec)

	ms := 0
	if frac != "" {
		frac = (frac + "000")[:3]
		ms, _ = strconv.Atoi(frac)
	}
	return float64(m*60+s) + float64(ms)/1000
}

func parseIDTag(line string, meta *Meta) {
	m := idTagRe.FindStringSubmatch(line)
	if m == nil {
		return
	}
	val := strings.TrimSpace(m[2])
	switch m[1] {
	case "ti":
		meta.Title = val
	case "ar":
		meta.Artist = val
	case "al":
		meta.Album = val
	case "by":
		meta.By = val
	}
}
