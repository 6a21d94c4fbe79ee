package stats

import (
	"math"
	"time"
)

// Session is an immutable snapshot of a practice session's counters.
type Session struct {
	StartTime      time.Time
	EndTime        time.Time
	Ended          bool
	ErrorCount     int
	HintCount      int
	CharacterCount int
	WordCount      int
}

// Duration is the session length measured at now. A running session uses
// the live clock; an ended one is frozen at EndTime.
func (s Session) Duration(now time.Time) time.Duration {
	end := now
	if s.Ended {
		end = s.EndTime
	}
	d := end.Sub(s.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// WPM is the target's word count over elapsed minutes.
func (s Session) WPM(now time.Time) float64 {
	return WordsPerMinute(s.WordCount, s.Duration(now))
}

// Accuracy is the share of target characters not spoiled by errors.
func (s Session) Accuracy() float64 {
	if s.CharacterCount == 0 {
		return 1.0
	}
	acc := float64(s.CharacterCount-s.ErrorCount) / float64(s.CharacterCount)
	if acc < 0 {
		return 0
	}
	return acc
}

// Score is the 0-100 composite of accuracy, speed and hint use.
func (s Session) Score(now time.Time) int {
	return Score(s.Accuracy(), s.WPM(now), s.HintCount)
}

// WordsPerMinute returns words over d in minutes, 0 for non-positive d.
func WordsPerMinute(words int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(words) / d.Minutes()
}

// Score combines accuracy (50), a speed bonus capped at 20 WPM (30) and a
// hint penalty capped at 20.
func Score(accuracy, wpm float64, hints int) int {
	speed := math.Min(30, wpm/20*30)
	penalty := math.Min(20, float64(hints)*5)
	raw := accuracy*50 + speed - penalty
	if raw < 0 {
		raw = 0
	}
	if raw > 100 {
		raw = 100
	}
	return int(raw)
}
