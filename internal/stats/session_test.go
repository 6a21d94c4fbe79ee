package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScoreFormula(t *testing.T) {
	cases := []struct {
		name     string
		accuracy float64
		wpm      float64
		hints    int
		want     int
	}{
		{"perfect at target speed", 1, 20, 0, 80},
		{"speed bonus caps at 30", 1, 200, 0, 80},
		{"slow and accurate", 1, 10, 0, 65},
		{"hint penalty", 1, 20, 2, 70},
		{"hint penalty caps at 20", 1, 20, 10, 60},
		{"clamped at zero", 0, 0, 4, 0},
		{"truncated not rounded", 0.999, 0, 0, 49},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Score(tc.accuracy, tc.wpm, tc.hints))
		})
	}
}

func TestSessionAccuracyIsCharacterBased(t *testing.T) {
	s := Session{CharacterCount: 10, ErrorCount: 2}
	assert.InDelta(t, 0.8, s.Accuracy(), 1e-9)

	s.ErrorCount = 15
	assert.Equal(t, 0.0, s.Accuracy())

	assert.Equal(t, 1.0, Session{}.Accuracy())
}

func TestSessionDuration(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s := Session{StartTime: start, WordCount: 5}

	now := start.Add(30 * time.Second)
	assert.Equal(t, 30*time.Second, s.Duration(now))
	assert.InDelta(t, 10.0, s.WPM(now), 1e-9)

	s.Ended = true
	s.EndTime = start.Add(time.Minute)
	assert.Equal(t, time.Minute, s.Duration(start.Add(time.Hour)))
	assert.Equal(t, 0.0, Session{StartTime: now}.WPM(start))
}

func TestWordsPerMinute(t *testing.T) {
	assert.Equal(t, 0.0, WordsPerMinute(10, 0))
	assert.Equal(t, 0.0, WordsPerMinute(10, -time.Second))
	assert.InDelta(t, 20.0, WordsPerMinute(10, 30*time.Second), 1e-9)
}
