package tui

import (
	"strings"

	"github.com/verte-zerg/cardtype/internal/render"
)

// wrapLines breaks styled runes into lines no wider than width, preferring
// to break at the last space. The space at a break is dropped.
func wrapLines(runes []render.Rune, width int) []string {
	if width <= 0 {
		return []string{render.Join(runes)}
	}
	var lines []string
	start := 0
	for start < len(runes) {
		end, used, lastSpace := start, 0, -1
		for end < len(runes) && used+runes[end].Width <= width {
			if runes[end].IsSpace {
				lastSpace = end
			}
			used += runes[end].Width
			end++
		}
		switch {
		case end == len(runes):
			lines = append(lines, render.Join(runes[start:end]))
			return lines
		case end == start:
			// A single rune wider than the line still gets its own line.
			end++
		case runes[end].IsSpace:
			lines = append(lines, render.Join(runes[start:end]))
			start = end + 1
			continue
		case lastSpace >= start:
			lines = append(lines, render.Join(runes[start:lastSpace]))
			start = lastSpace + 1
			continue
		}
		lines = append(lines, render.Join(runes[start:end]))
		start = end
	}
	return lines
}

func wrapText(runes []render.Rune, width int) string {
	return strings.Join(wrapLines(runes, width), "\n")
}
