package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/cardtype/internal/model"
	"github.com/verte-zerg/cardtype/internal/stats"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestApplyGoodProgression(t *testing.T) {
	s := New("k", now)
	assert.True(t, IsDue(s, now))

	s = Apply(s, stats.Good, now)
	assert.Equal(t, 1, s.IntervalDays)
	assert.Equal(t, 1, s.Reps)
	assert.InDelta(t, 2.5, s.Ease, 1e-9)
	assert.Equal(t, now.Add(24*time.Hour), s.DueAt)
	assert.False(t, IsDue(s, now))

	s = Apply(s, stats.Good, now)
	assert.Equal(t, 6, s.IntervalDays)

	s = Apply(s, stats.Good, now)
	assert.Equal(t, 15, s.IntervalDays)
	assert.Equal(t, 3, s.Reps)
}

func TestApplyEasyBonus(t *testing.T) {
	s := Apply(New("k", now), stats.Easy, now)
	assert.InDelta(t, 2.6, s.Ease, 1e-9)
	assert.Equal(t, 2, s.IntervalDays)
}

func TestApplyAgainResets(t *testing.T) {
	s := New("k", now)
	s.IntervalDays = 20
	s.Reps = 4
	s = Apply(s, stats.Again, now)
	assert.Equal(t, 1, s.IntervalDays)
	assert.Equal(t, 0, s.Reps)
	assert.Equal(t, 1, s.Lapses)
	assert.InDelta(t, 2.18, s.Ease, 1e-9)
	assert.Equal(t, now, s.ReviewedAt)
}

func TestApplyHardKeepsLapses(t *testing.T) {
	s := Apply(New("k", now), stats.Hard, now)
	assert.Equal(t, 0, s.Lapses)
	assert.Equal(t, 1, s.IntervalDays)
	assert.InDelta(t, 2.36, s.Ease, 1e-9)
}

func TestEaseFloor(t *testing.T) {
	s := New("k", now)
	for i := 0; i < 10; i++ {
		s = Apply(s, stats.Again, now)
	}
	assert.InDelta(t, 1.3, s.Ease, 1e-9)
	assert.Equal(t, 10, s.Lapses)
}

func TestApplyZeroStateUsesDefaultEase(t *testing.T) {
	s := Apply(model.CardReview{CardKey: "k"}, stats.Good, now)
	assert.InDelta(t, DefaultEase, s.Ease, 1e-9)
}
