// Package hint reveals progressively more of the target text.
package hint

import (
	"fmt"

	"github.com/verte-zerg/cardtype/internal/segment"
)

// Level is the amount of target text disclosed. Levels are ordered.
type Level int

const (
	None Level = iota
	Character
	Word
	Sentence
)

var levelNames = map[Level]string{
	None:      "none",
	Character: "character",
	Word:      "word",
	Sentence:  "sentence",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

// ParseLevel maps a level name back to a Level.
func ParseLevel(s string) (Level, error) {
	for level, name := range levelNames {
		if name == s {
			return level, nil
		}
	}
	return None, fmt.Errorf("unknown hint level %q", s)
}

// Penalty is the scoring weight of a level.
func Penalty(l Level) int {
	switch l {
	case Character:
		return 2
	case Word:
		return 5
	case Sentence:
		return 10
	default:
		return 0
	}
}

// Describe returns a human-readable label for a level.
func Describe(l Level) string {
	switch l {
	case None:
		return "No hints"
	case Character:
		return "Show current character"
	case Word:
		return "Show current word"
	case Sentence:
		return "Show full sentence"
	default:
		return "Unknown"
	}
}

// Hint is a disclosed piece of the target.
type Hint struct {
	Level     Level
	Content   string
	Position  int
	WordStart int
	WordEnd   int
}

// Manager owns the hint level for one practice session.
type Manager struct {
	target []rune
	words  []segment.Span
	level  Level
}

// NewManager builds a Manager for target.
func NewManager(target string) *Manager {
	runes := []rune(target)
	return &Manager{
		target: runes,
		words:  segment.Words(runes),
	}
}

// Level returns the current level.
func (m *Manager) Level() Level {
	return m.level
}

// SetLevel jumps to any level.
func (m *Manager) SetLevel(l Level) {
	if l < None {
		l = None
	}
	if l > Sentence {
		l = Sentence
	}
	m.level = l
}

// Next returns the level Cycle would move to, clamped at Sentence.
func (m *Manager) Next() Level {
	if m.level >= Sentence {
		return Sentence
	}
	return m.level + 1
}

// Cycle advances one level and returns it.
func (m *Manager) Cycle() Level {
	m.level = m.Next()
	return m.level
}

// Reset returns to None.
func (m *Manager) Reset() {
	m.level = None
}

// Available reports whether there is any text to hint at.
func (m *Manager) Available() bool {
	return len(m.target) > 0
}

// WordBoundary returns the word containing position, the next word when
// position is on whitespace, or (position, position) when none remains.
func (m *Manager) WordBoundary(position int) (int, int) {
	span := segment.At(m.words, position)
	return span.Start, span.End
}

// Current returns the hint for position at the manager's own level.
func (m *Manager) Current(position int) *Hint {
	return m.Get(position, m.level)
}

// Get returns the hint for position at level, or nil when level is None or
// position is past the end of the target.
func (m *Manager) Get(position int, level Level) *Hint {
	if level == None || position < 0 || position >= len(m.target) {
		return nil
	}
	start, end := m.WordBoundary(position)
	h := &Hint{
		Level:     level,
		Position:  position,
		WordStart: start,
		WordEnd:   end,
	}
	switch level {
	case Character:
		h.Content = string(m.target[position])
	case Word:
		from := start
		if position < from {
			from = position
		}
		to := end
		if to <= position {
			to = position + 1
		}
		h.Content = m.bracketed(from, to, position)
	case Sentence:
		h.Content = m.bracketed(0, len(m.target), position)
	default:
		return nil
	}
	return h
}

func (m *Manager) bracketed(from, to, position int) string {
	return string(m.target[from:position]) + "[" + string(m.target[position]) + "]" + string(m.target[position+1:to])
}

// Format renders a hint as a single display line.
func Format(h *Hint) string {
	if h == nil {
		return ""
	}
	switch h.Level {
	case Character:
		return fmt.Sprintf("Next character: [%s]", h.Content)
	case Word:
		return fmt.Sprintf("Current word: %s", h.Content)
	case Sentence:
		return fmt.Sprintf("Full sentence: %s", h.Content)
	default:
		return ""
	}
}

// Recommend suggests a level from the number of mistakes so far.
func Recommend(errorCount int) Level {
	switch {
	case errorCount >= 3:
		return Word
	case errorCount >= 1:
		return Character
	default:
		return None
	}
}
