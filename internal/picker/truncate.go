package picker

import (
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// TruncateDir shortens a directory path to at most maxWidth display columns
// by replacing whole middle segments with an ellipsis, as in
// "/home/u/…/proj/src". The root and the last segment are kept; segments
// are added back from both ends while they fit. When even the last segment
// is too wide, its beginning is cut instead.
func TruncateDir(dir string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(dir) <= maxWidth {
		return dir
	}

	sep := string(filepath.Separator)
	root := filepath.VolumeName(dir)
	rest := dir[len(root):]
	if strings.HasPrefix(rest, sep) {
		root += sep
		rest = rest[len(sep):]
	}
	segs := strings.Split(strings.TrimSuffix(rest, sep), sep)

	build := func(head, tail int) string {
		var b strings.Builder
		b.WriteString(root)
		for _, s := range segs[:head] {
			b.WriteString(s)
			b.WriteString(sep)
		}
		b.WriteString(ellipsis)
		for _, s := range segs[len(segs)-tail:] {
			b.WriteString(sep)
			b.WriteString(s)
		}
		return b.String()
	}
	fits := func(head, tail int) bool {
		return head+tail < len(segs) && runewidth.StringWidth(build(head, tail)) <= maxWidth
	}

	if !fits(0, 1) {
		return cutLeft(segs[len(segs)-1], maxWidth)
	}
	head, tail := 0, 1
	for {
		grown := false
		if fits(head+1, tail) {
			head++
			grown = true
		}
		if fits(head, tail+1) {
			tail++
			grown = true
		}
		if !grown {
			return build(head, tail)
		}
	}
}

// cutLeft keeps the widest suffix of s that fits after a leading ellipsis.
func cutLeft(s string, maxWidth int) string {
	runes := []rune(s)
	w := runewidth.StringWidth(ellipsis)
	start := len(runes)
	for start > 0 {
		rw := runewidth.RuneWidth(runes[start-1])
		if w+rw > maxWidth {
			break
		}
		w += rw
		start--
	}
	return ellipsis + string(runes[start:])
}
