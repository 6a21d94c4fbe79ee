// Package render turns engine character slots into styled output.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/cardtype/internal/engine"
)

// Mode selects how the cursor and typed text are highlighted. It never
// affects matching.
type Mode string

const (
	Progressive  Mode = "progressive"
	Accompanying Mode = "accompanying"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Progressive:
		return Progressive, nil
	case Accompanying:
		return Accompanying, nil
	}
	return "", fmt.Errorf("unknown input mode %q", s)
}

// Style is a renderer-neutral text style.
type Style struct {
	Foreground string
	Background string
	Bold       bool
	Underline  bool
}

// CSS renders the style as inline CSS declarations.
func (s Style) CSS() string {
	parts := make([]string, 0, 4)
	if s.Foreground != "" {
		parts = append(parts, "color: "+s.Foreground+";")
	}
	if s.Background != "" {
		parts = append(parts, "background-color: "+s.Background+";")
	}
	if s.Bold {
		parts = append(parts, "font-weight: bold;")
	}
	if s.Underline {
		parts = append(parts, "text-decoration: underline;")
	}
	return strings.Join(parts, " ")
}

// Lipgloss converts the style for terminal output.
func (s Style) Lipgloss() lipgloss.Style {
	st := lipgloss.NewStyle()
	if s.Foreground != "" {
		st = st.Foreground(lipgloss.Color(s.Foreground))
	}
	if s.Background != "" {
		st = st.Background(lipgloss.Color(s.Background))
	}
	if s.Bold {
		st = st.Bold(true)
	}
	if s.Underline {
		st = st.Underline(true)
	}
	return st
}

// Theme assigns a style to each character state. Word, when set, marks the
// untyped rest of the word under the cursor.
type Theme struct {
	Correct   Style
	Current   Style
	Error     Style
	Undefined Style
	Word      *Style
}

// For returns the style of a state.
func (t Theme) For(state engine.CharState) Style {
	switch state {
	case engine.Correct:
		return t.Correct
	case engine.Current:
		return t.Current
	case engine.Error:
		return t.Error
	default:
		return t.Undefined
	}
}

var (
	classicTheme = Theme{
		Correct:   Style{Foreground: "#4CAF50", Bold: true},
		Current:   Style{Background: "#FFEB3B", Underline: true},
		Error:     Style{Foreground: "#F44336", Bold: true},
		Undefined: Style{Foreground: "#999999"},
	}
	progressiveTheme = Theme{
		Correct:   Style{Foreground: "#4CAF50", Bold: true},
		Current:   Style{Foreground: "#FF9800", Background: "#FFE0B2", Bold: true, Underline: true},
		Error:     Style{Foreground: "#F44336", Background: "#FFCDD2", Bold: true},
		Undefined: Style{Foreground: "#999999"},
		Word:      &Style{Foreground: "#C89A3A"},
	}
	accompanyingTheme = Theme{
		Correct:   Style{Foreground: "#4CAF50", Bold: true},
		Current:   Style{Foreground: "#212121", Background: "#FFEB3B", Bold: true},
		Error:     Style{Foreground: "#F44336", Background: "#FFCDD2", Bold: true},
		Undefined: Style{Foreground: "#999999"},
	}
)

// Classic is the plain card-field theme used for HTML export.
func Classic() Theme {
	return classicTheme
}

// ThemeFor returns the terminal theme of an input mode.
func ThemeFor(mode Mode) Theme {
	if mode == Accompanying {
		return accompanyingTheme
	}
	return progressiveTheme
}
