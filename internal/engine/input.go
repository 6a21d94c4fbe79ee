package engine

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidInput is returned for input strings that are not a single event.
var ErrInvalidInput = errors.New("invalid input event")

// InputKind distinguishes keystrokes from navigation and control signals.
type InputKind int

const (
	// KindRune is a single printable character.
	KindRune InputKind = iota
	// KindBackspace removes the last accepted character.
	KindBackspace
	// KindControl is any other non-printable signal and is ignored.
	KindControl
)

// Input is one discrete event fed to the engine.
type Input struct {
	Kind InputKind
	Rune rune
}

// Key returns a character event. Non-graphic runes become control events.
func Key(r rune) Input {
	if r == '\b' {
		return Backspace()
	}
	if !unicode.IsGraphic(r) {
		return Input{Kind: KindControl, Rune: r}
	}
	return Input{Kind: KindRune, Rune: r}
}

// Backspace returns the backspace event.
func Backspace() Input {
	return Input{Kind: KindBackspace}
}

// Control returns an event that the engine ignores.
func Control() Input {
	return Input{Kind: KindControl}
}

// ParseInput converts a raw key string into an Input. Empty and
// multi-character strings (pastes) are rejected with ErrInvalidInput.
func ParseInput(s string) (Input, error) {
	if s == "" {
		return Input{}, fmt.Errorf("empty input: %w", ErrInvalidInput)
	}
	if utf8.RuneCountInString(s) != 1 {
		return Input{}, fmt.Errorf("multi-character input %q: %w", s, ErrInvalidInput)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return Input{}, fmt.Errorf("malformed input %q: %w", s, ErrInvalidInput)
	}
	return Key(r), nil
}
