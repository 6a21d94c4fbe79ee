// Package engine implements the character-by-character typing state machine.
package engine

import (
	"fmt"
	"time"

	"github.com/verte-zerg/cardtype/internal/segment"
	"github.com/verte-zerg/cardtype/internal/tolerance"
)

// CharState is the display state of one target character.
type CharState int

const (
	Undefined CharState = iota
	Correct
	Current
	Error
)

func (s CharState) String() string {
	switch s {
	case Undefined:
		return "undefined"
	case Correct:
		return "correct"
	case Current:
		return "current"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Slot is one character of the target text with its state.
type Slot struct {
	Char     rune
	State    CharState
	Position int
}

// ResetMode selects how much progress Reset discards.
type ResetMode string

const (
	ResetSentence ResetMode = "sentence"
	ResetWord     ResetMode = "word"
)

// ParseResetMode validates a reset mode name.
func ParseResetMode(s string) (ResetMode, error) {
	switch ResetMode(s) {
	case ResetSentence, ResetWord:
		return ResetMode(s), nil
	default:
		return "", fmt.Errorf("unknown reset mode %q (want sentence or word)", s)
	}
}

// Result reports the outcome of one processed event. Slots is a copy.
type Result struct {
	IsCorrect     bool
	IsComplete    bool
	ErrorOccurred bool
	TypedText     string
	Position      int
	Slots         []Slot
	// Note carries the tolerance explanation when a keystroke was accepted
	// leniently.
	Note string
}

// Engine tracks typing progress against a target text. It is not safe for
// concurrent mutation; readers should rely on Result snapshots.
type Engine struct {
	target    []rune
	typed     []rune
	pos       int
	errors    int
	complete  bool
	slots     []Slot
	tolerance tolerance.Config
}

// New returns an engine for target. An empty target is immediately complete.
func New(target string, cfg tolerance.Config) *Engine {
	e := &Engine{tolerance: cfg}
	e.SetTargetText(target)
	return e
}

// SetTargetText replaces the target and performs a full reset.
func (e *Engine) SetTargetText(target string) {
	e.target = []rune(target)
	e.resetAll()
}

func (e *Engine) resetAll() {
	e.typed = e.typed[:0]
	e.pos = 0
	e.errors = 0
	e.complete = len(e.target) == 0
	e.slots = make([]Slot, len(e.target))
	for i, r := range e.target {
		e.slots[i] = Slot{Char: r, State: Undefined, Position: i}
	}
	if len(e.slots) > 0 {
		e.slots[0].State = Current
	}
}

// ProcessText parses s and processes it. Invalid strings leave the state
// untouched and return ErrInvalidInput.
func (e *Engine) ProcessText(s string) (Result, error) {
	in, err := ParseInput(s)
	if err != nil {
		return e.result(false, e.complete, false, ""), err
	}
	return e.ProcessInput(in), nil
}

// ProcessInput applies one event.
func (e *Engine) ProcessInput(in Input) Result {
	if e.complete {
		return e.result(false, true, false, "")
	}
	e.clearTransientError()

	switch in.Kind {
	case KindBackspace:
		return e.backspace()
	case KindRune:
		return e.keystroke(in.Rune)
	default:
		return e.result(false, false, false, "")
	}
}

func (e *Engine) keystroke(r rune) Result {
	prev := rune(0)
	if len(e.typed) > 0 {
		prev = e.typed[len(e.typed)-1]
	}
	out := tolerance.Apply(tolerance.Request{
		Input:    r,
		Previous: prev,
		Expected: e.target[e.pos:],
	}, e.tolerance)
	if !out.Accept {
		e.errors++
		e.slots[e.pos].State = Error
		return e.result(false, false, true, "")
	}
	for _, accepted := range out.Text {
		e.typed = append(e.typed, accepted)
		e.slots[e.pos].State = Correct
		e.pos++
	}
	if e.pos < len(e.slots) {
		e.slots[e.pos].State = Current
	}
	e.complete = e.pos >= len(e.target)
	return e.result(true, e.complete, false, out.Note)
}

func (e *Engine) backspace() Result {
	if e.pos == 0 {
		return e.result(false, false, false, "")
	}
	e.pos--
	if len(e.typed) > 0 {
		e.typed = e.typed[:len(e.typed)-1]
	}
	e.slots[e.pos].State = Current
	if e.pos+1 < len(e.slots) {
		e.slots[e.pos+1].State = Undefined
	}
	return e.result(true, false, false, "")
}

// Reset discards progress. Sentence mode reinitialises everything; word
// mode rewinds to the start of the current word and keeps the error count.
// It returns false when nothing was reset.
func (e *Engine) Reset(mode ResetMode) bool {
	switch mode {
	case ResetSentence:
		e.resetAll()
		return true
	case ResetWord:
		return e.resetWord()
	default:
		return false
	}
}

func (e *Engine) resetWord() bool {
	if e.pos == 0 {
		return false
	}
	start := segment.WordStart(e.target, e.pos)
	e.typed = e.typed[:start]
	e.pos = start
	for i := start; i < len(e.slots); i++ {
		e.slots[i].State = Undefined
	}
	if start < len(e.slots) {
		e.slots[start].State = Current
	}
	e.complete = false
	return true
}

func (e *Engine) clearTransientError() {
	if e.pos < len(e.slots) && e.slots[e.pos].State == Error {
		e.slots[e.pos].State = Current
	}
}

func (e *Engine) result(correct, complete, errored bool, note string) Result {
	return Result{
		IsCorrect:     correct,
		IsComplete:    complete,
		ErrorOccurred: errored,
		TypedText:     string(e.typed),
		Position:      e.pos,
		Slots:         e.Slots(),
		Note:          note,
	}
}

// Slots returns a copy of the character slots.
func (e *Engine) Slots() []Slot {
	out := make([]Slot, len(e.slots))
	copy(out, e.slots)
	return out
}

// TakeSlots returns a copy of the slots for rendering and then clears the
// transient Error marker so it is shown exactly once.
func (e *Engine) TakeSlots() []Slot {
	out := e.Slots()
	e.clearTransientError()
	return out
}

// Target returns the target text.
func (e *Engine) Target() string {
	return string(e.target)
}

// TypedText returns the accepted prefix.
func (e *Engine) TypedText() string {
	return string(e.typed)
}

// Position returns the cursor index.
func (e *Engine) Position() int {
	return e.pos
}

// ErrorCount returns the cumulative wrong keystrokes since the last
// sentence reset.
func (e *Engine) ErrorCount() int {
	return e.errors
}

// IsComplete reports whether the whole target has been typed.
func (e *Engine) IsComplete() bool {
	return e.complete
}

// ProgressPercentage returns progress in [0, 1]; 1 for an empty target.
func (e *Engine) ProgressPercentage() float64 {
	if len(e.target) == 0 {
		return 1.0
	}
	return float64(e.pos) / float64(len(e.target))
}

// Accuracy is attempt based: (position - errors) / (position + errors).
func (e *Engine) Accuracy() float64 {
	if e.pos == 0 {
		return 1.0
	}
	attempts := e.pos + e.errors
	acc := float64(e.pos-e.errors) / float64(attempts)
	if acc < 0 {
		return 0
	}
	return acc
}

// WordsPerMinute divides the target word count by the elapsed minutes.
func (e *Engine) WordsPerMinute(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(segment.Count(string(e.target))) / elapsed.Minutes()
}
