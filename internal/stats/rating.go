package stats

import (
	"fmt"
	"strings"
)

// Rating is the review quality signal handed to the scheduler.
type Rating int

const (
	Again Rating = iota + 1
	Hard
	Good
	Easy
)

func (r Rating) String() string {
	switch r {
	case Again:
		return "again"
	case Hard:
		return "hard"
	case Good:
		return "good"
	case Easy:
		return "easy"
	default:
		return fmt.Sprintf("rating(%d)", int(r))
	}
}

// ParseRating accepts a rating name or its 1-4 number.
func ParseRating(s string) (Rating, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "again", "1":
		return Again, nil
	case "hard", "2":
		return Hard, nil
	case "good", "3":
		return Good, nil
	case "easy", "4":
		return Easy, nil
	}
	return 0, fmt.Errorf("unknown rating %q", s)
}

// RatingFor maps session performance to a rating. Rows are checked in
// order and the first match wins.
func RatingFor(errors, hints, score int) Rating {
	switch {
	case errors == 0 && hints == 0 && score >= 90:
		return Easy
	case errors == 0 && hints == 0 && score >= 80:
		return Good
	case errors == 0 && hints == 0:
		return Hard
	case errors <= 2 && hints <= 1:
		return Good
	case errors <= 5:
		return Hard
	default:
		return Again
	}
}

// PracticeStats is the result record of one card practice.
type PracticeStats struct {
	TimeSeconds float64 `yaml:"time_seconds"`
	ErrorCount  int     `yaml:"error_count"`
	HintCount   int     `yaml:"hint_count"`
	Score       int     `yaml:"score"`
}

// Rating derives the review rating for the record.
func (p PracticeStats) Rating() Rating {
	return RatingFor(p.ErrorCount, p.HintCount, p.Score)
}

// CardField renders the record as a single line for a card's stats field.
func (p PracticeStats) CardField() string {
	return fmt.Sprintf("Time: %.1fs, Errors: %d, Hints: %d, Score: %d", p.TimeSeconds, p.ErrorCount, p.HintCount, p.Score)
}
