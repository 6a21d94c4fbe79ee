// Package tolerance decides whether a keystroke is accepted against the
// expected target text under configurable leniency rules.
package tolerance

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Config holds the leniency flags. The zero value is strict apart from case,
// so callers normally start from Strict or DefaultConfig.
type Config struct {
	CaseSensitive           bool
	HandlePunctuation       bool
	AutoPunctuation         bool
	IgnorePunctuationErrors bool
	HandleWhitespace        bool
	IgnoreExtraSpaces       bool
	AutoCorrectSpaces       bool
}

// Strict accepts only exact matches.
func Strict() Config {
	return Config{CaseSensitive: true}
}

// DefaultConfig returns the practice defaults: case sensitive with punctuation
// auto-insert and whitespace collapsing on. Punctuation errors still count.
func DefaultConfig() Config {
	return Config{
		CaseSensitive:     true,
		HandlePunctuation: true,
		AutoPunctuation:   true,
		HandleWhitespace:  true,
		IgnoreExtraSpaces: true,
		AutoCorrectSpaces: true,
	}
}

// Request is one keystroke in context.
type Request struct {
	Input rune
	// Previous is the last accepted rune, or 0 at the start of the text.
	Previous rune
	// Expected is the remaining target text starting at the cursor.
	Expected []rune
}

// Outcome is the decision for a Request. Text is always a prefix of
// Request.Expected; it may be empty (keystroke absorbed) or longer than one
// rune when marks or spaces were inserted automatically.
type Outcome struct {
	Text   string
	Accept bool
	Note   string
}

var (
	autoPunctuation = map[rune]struct{}{
		'.': {}, ',': {}, '!': {}, '?': {}, ';': {}, ':': {},
		')': {}, ']': {}, '}': {}, '"': {}, '\'': {},
	}
	spaceAfter = map[rune]struct{}{
		'.': {}, '!': {}, '?': {}, ';': {}, ':': {}, ',': {},
		')': {}, ']': {}, '}': {},
	}
	pairs = map[rune]rune{
		'"': '"', '\'': '\'', '(': ')', '[': ']', '{': '}', '<': '>',
	}
)

// Apply evaluates req under cfg. It is a pure function of its arguments.
func Apply(req Request, cfg Config) Outcome {
	if len(req.Expected) == 0 {
		return Outcome{}
	}
	expected := req.Expected[0]

	out, ok := match(req, cfg, expected)
	if !ok {
		return Outcome{}
	}
	if out.Text != "" {
		out = appendTrailingSpace(out, req.Expected, cfg)
	}
	return out
}

func match(req Request, cfg Config, expected rune) (Outcome, bool) {
	if req.Input == expected {
		return Outcome{Text: string(expected), Accept: true}, true
	}
	if !cfg.CaseSensitive && foldEqual(req.Input, expected) {
		return Outcome{Text: string(expected), Accept: true, Note: "case-insensitive match"}, true
	}
	if cfg.HandlePunctuation && cfg.IgnorePunctuationErrors && stripPunctuation(req.Input) == stripPunctuation(expected) {
		return Outcome{Text: string(expected), Accept: true, Note: "punctuation differences ignored"}, true
	}
	if cfg.HandleWhitespace && cfg.IgnoreExtraSpaces && unicode.IsSpace(req.Previous) {
		if req.Input == ' ' && !unicode.IsSpace(expected) {
			return Outcome{Accept: true, Note: "extra spaces ignored"}, true
		}
		if unicode.IsSpace(expected) {
			n := leadingSpaces(req.Expected)
			if n < len(req.Expected) && runesMatch(req.Input, req.Expected[n], cfg) {
				return Outcome{Text: string(req.Expected[:n+1]), Accept: true, Note: "extra spaces ignored"}, true
			}
		}
	}
	if cfg.HandlePunctuation && cfg.AutoPunctuation && isAutoPunctuation(expected) {
		n := 0
		for n < len(req.Expected) && isAutoPunctuation(req.Expected[n]) {
			n++
		}
		inserted := string(req.Expected[:n])
		if cfg.HandleWhitespace && cfg.AutoCorrectSpaces && anyRequiresSpaceAfter(req.Expected[:n]) && req.Input != ' ' {
			n += leadingSpaces(req.Expected[n:])
		}
		if n < len(req.Expected) && runesMatch(req.Input, req.Expected[n], cfg) {
			return Outcome{
				Text:   string(req.Expected[:n+1]),
				Accept: true,
				Note:   fmt.Sprintf("auto-added punctuation: %s", inserted),
			}, true
		}
	}
	return Outcome{}, false
}

func appendTrailingSpace(out Outcome, expected []rune, cfg Config) Outcome {
	if !cfg.HandleWhitespace || !cfg.AutoCorrectSpaces {
		return out
	}
	k := len([]rune(out.Text))
	if k >= len(expected) || expected[k] != ' ' || !RequiresSpaceAfter(expected[k-1]) {
		return out
	}
	out.Text += " "
	if out.Note == "" {
		out.Note = "auto-added space after punctuation"
	} else {
		out.Note += "; auto-added space after punctuation"
	}
	return out
}

func anyRequiresSpaceAfter(marks []rune) bool {
	for _, r := range marks {
		if RequiresSpaceAfter(r) {
			return true
		}
	}
	return false
}

func runesMatch(input, expected rune, cfg Config) bool {
	if input == expected {
		return true
	}
	return !cfg.CaseSensitive && foldEqual(input, expected)
}

func foldEqual(a, b rune) bool {
	folder := cases.Fold()
	return folder.String(string(a)) == folder.String(string(b))
}

func leadingSpaces(runes []rune) int {
	n := 0
	for n < len(runes) && unicode.IsSpace(runes[n]) {
		n++
	}
	return n
}

func stripPunctuation(r rune) string {
	if IsPunctuation(r) {
		return ""
	}
	return string(r)
}

func isAutoPunctuation(r rune) bool {
	_, ok := autoPunctuation[r]
	return ok
}

// IsPunctuation reports whether r is neither a word rune nor whitespace.
func IsPunctuation(r rune) bool {
	return !isWordRune(r) && !unicode.IsSpace(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// RequiresSpaceAfter reports whether r conventionally takes a trailing space.
func RequiresSpaceAfter(r rune) bool {
	_, ok := spaceAfter[r]
	return ok
}

// CharInfo classifies a single rune.
type CharInfo struct {
	IsPunctuation      bool
	IsWhitespace       bool
	IsLetter           bool
	IsDigit            bool
	RequiresSpaceAfter bool
	IsPairedOpen       bool
	IsPairedClose      bool
}

// Classify returns the CharInfo for r.
func Classify(r rune) CharInfo {
	info := CharInfo{
		IsPunctuation:      IsPunctuation(r),
		IsWhitespace:       unicode.IsSpace(r),
		IsLetter:           unicode.IsLetter(r),
		IsDigit:            unicode.IsDigit(r),
		RequiresSpaceAfter: RequiresSpaceAfter(r),
	}
	if _, ok := pairs[r]; ok {
		info.IsPairedOpen = true
	}
	for _, closing := range pairs {
		if closing == r {
			info.IsPairedClose = true
			break
		}
	}
	return info
}

// ValidateSequence checks a whole typed string against the expected text
// using the same case and punctuation rules as Apply.
func ValidateSequence(input, expected string, cfg Config) error {
	in := []rune(input)
	exp := []rune(expected)
	j := 0
	for i := 0; i < len(in); {
		if j >= len(exp) {
			return fmt.Errorf("input is longer than expected")
		}
		u, e := in[i], exp[j]
		if cfg.HandlePunctuation && cfg.IgnorePunctuationErrors {
			up, ep := IsPunctuation(u), IsPunctuation(e)
			switch {
			case up && ep:
				i++
				j++
				continue
			case ep:
				j++
				continue
			case up:
				return fmt.Errorf("expected %q but got punctuation %q", e, u)
			}
		}
		if !runesMatch(u, e, cfg) {
			return fmt.Errorf("expected %q but got %q", e, u)
		}
		i++
		j++
	}
	return nil
}

// PunctuationStats counts punctuation marks by class.
type PunctuationStats struct {
	Total        int
	Periods      int
	Commas       int
	Exclamations int
	Questions    int
	Quotes       int
	Parentheses  int
	Brackets     int
	Braces       int
}

// CountPunctuation tallies the punctuation in text.
func CountPunctuation(text string) PunctuationStats {
	var s PunctuationStats
	for _, r := range text {
		if !IsPunctuation(r) {
			continue
		}
		s.Total++
		switch {
		case r == '.':
			s.Periods++
		case r == ',':
			s.Commas++
		case r == '!':
			s.Exclamations++
		case r == '?':
			s.Questions++
		case r == '"' || r == '\'':
			s.Quotes++
		case strings.ContainsRune("()", r):
			s.Parentheses++
		case strings.ContainsRune("[]", r):
			s.Brackets++
		case strings.ContainsRune("{}", r):
			s.Braces++
		}
	}
	return s
}
