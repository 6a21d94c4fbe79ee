package render

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/cardtype/internal/engine"
	"github.com/verte-zerg/cardtype/internal/segment"
)

// wrongSpace stands in for a space the user mistyped, which would
// otherwise be invisible.
const wrongSpace = '•'

// Rune is one styled terminal cell group, ready for wrapping.
type Rune struct {
	S       string
	Width   int
	IsSpace bool
}

// HTML renders slots as inline-styled spans. Spaces become &nbsp; and are
// only wrapped when they carry the cursor or an error.
func HTML(slots []engine.Slot, theme Theme) string {
	var b strings.Builder
	for _, slot := range slots {
		css := theme.For(slot.State).CSS()
		if slot.Char == ' ' {
			if slot.State == engine.Current || slot.State == engine.Error {
				b.WriteString(`<span style="` + css + `">&nbsp;</span>`)
				continue
			}
			b.WriteString("&nbsp;")
			continue
		}
		b.WriteString(`<span style="` + css + `">` + escapeHTML(slot.Char) + `</span>`)
	}
	return b.String()
}

func escapeHTML(r rune) string {
	switch r {
	case '<':
		return "&lt;"
	case '>':
		return "&gt;"
	case '&':
		return "&amp;"
	case '"':
		return "&quot;"
	default:
		return string(r)
	}
}

// Runes styles each slot for the terminal.
func Runes(slots []engine.Slot, theme Theme) []Rune {
	word := segment.Span{Start: -1, End: -1}
	if theme.Word != nil {
		word = currentWord(slots)
	}
	out := make([]Rune, 0, len(slots))
	for i, slot := range slots {
		display := slot.Char
		style := theme.For(slot.State)
		if slot.State == engine.Error && segment.IsSpace(slot.Char) {
			display = wrongSpace
		}
		if slot.State == engine.Undefined && word.Contains(i) {
			style = *theme.Word
		}
		out = append(out, Rune{
			S:       style.Lipgloss().Render(string(display)),
			Width:   runewidth.RuneWidth(display),
			IsSpace: segment.IsSpace(slot.Char),
		})
	}
	return out
}

// ANSI renders slots for the terminal on a single line.
func ANSI(slots []engine.Slot, theme Theme) string {
	return Join(Runes(slots, theme))
}

// Join concatenates styled runes.
func Join(runes []Rune) string {
	var b strings.Builder
	for _, r := range runes {
		b.WriteString(r.S)
	}
	return b.String()
}

// Plain renders slots as the target text followed by a marker line:
// '.' correct, '^' current, 'x' error, ' ' untyped.
func Plain(slots []engine.Slot) string {
	var text, marks strings.Builder
	for _, slot := range slots {
		text.WriteRune(slot.Char)
		mark := " "
		switch slot.State {
		case engine.Correct:
			mark = "."
		case engine.Current:
			mark = "^"
		case engine.Error:
			mark = "x"
		}
		marks.WriteString(strings.Repeat(mark, max(1, runewidth.RuneWidth(slot.Char))))
	}
	return text.String() + "\n" + strings.TrimRight(marks.String(), " ")
}

func currentWord(slots []engine.Slot) segment.Span {
	chars := make([]rune, len(slots))
	cursor := -1
	for i, slot := range slots {
		chars[i] = slot.Char
		if slot.State == engine.Current || slot.State == engine.Error {
			cursor = i
		}
	}
	if cursor < 0 {
		return segment.Span{Start: -1, End: -1}
	}
	return segment.At(segment.Words(chars), cursor)
}
