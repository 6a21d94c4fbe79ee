// Package segment finds word boundaries in target text.
package segment

import "unicode"

// Span is a half-open [Start, End) rune range.
type Span struct {
	Start int
	End   int
}

// Len returns the number of runes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether pos lies inside the span.
func (s Span) Contains(pos int) bool {
	return pos >= s.Start && pos < s.End
}

// IsSpace reports whether r separates words.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r)
}

// Words returns the spans of every run of non-space runes, in order.
func Words(text []rune) []Span {
	words := []Span{}
	start := -1
	for i, r := range text {
		if IsSpace(r) {
			if start != -1 {
				words = append(words, Span{Start: start, End: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, Span{Start: start, End: len(text)})
	}
	return words
}

// At returns the word containing pos. When pos sits on whitespace the next
// word is returned, and when no word follows the empty span (pos, pos).
func At(words []Span, pos int) Span {
	for _, w := range words {
		if w.Contains(pos) {
			return w
		}
	}
	for _, w := range words {
		if pos < w.Start {
			return w
		}
	}
	return Span{Start: pos, End: pos}
}

// Count returns the number of whitespace-delimited words in text.
func Count(text string) int {
	return len(Words([]rune(text)))
}

// WordStart scans backward from pos-1 to the first rune of the word being
// typed. A run of spaces directly before pos is not treated as a boundary,
// so a cursor sitting just after a space rewinds to the previous word.
// Any unicode space ends the scan, not only ' ', so a tab or NBSP left in a
// target still bounds a word.
func WordStart(text []rune, pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos > len(text) {
		pos = len(text)
	}
	start := pos - 1
	for start > 0 && !IsSpace(text[start-1]) {
		start--
	}
	return start
}
