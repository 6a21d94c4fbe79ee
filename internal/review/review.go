// Package review schedules cards with an SM-2 variant driven by practice
// ratings.
package review

import (
	"math"
	"time"

	"github.com/verte-zerg/cardtype/internal/model"
	"github.com/verte-zerg/cardtype/internal/stats"
)

const (
	// DefaultEase is the ease of a card that was never reviewed.
	DefaultEase = 2.5
	minEase     = 1.3
	easyBonus   = 1.3
	day         = 24 * time.Hour
)

// New returns the initial state of a card, due immediately.
func New(cardKey string, now time.Time) model.CardReview {
	return model.CardReview{CardKey: cardKey, Ease: DefaultEase, DueAt: now}
}

// Apply updates state for a practice rated r at now.
func Apply(state model.CardReview, r stats.Rating, now time.Time) model.CardReview {
	if state.Ease == 0 {
		state.Ease = DefaultEase
	}
	quality := float64(clampRating(r) - 1)
	ease := state.Ease + 0.1 - (3-quality)*(0.08+(3-quality)*0.02)
	state.Ease = math.Max(minEase, ease)

	switch {
	case r <= stats.Hard:
		if r <= stats.Again {
			state.Lapses++
		}
		state.Reps = 0
		state.IntervalDays = 1
	default:
		state.Reps++
		switch state.Reps {
		case 1:
			state.IntervalDays = 1
		case 2:
			state.IntervalDays = 6
		default:
			state.IntervalDays = int(math.Round(float64(state.IntervalDays) * state.Ease))
		}
		if r == stats.Easy {
			state.IntervalDays = int(math.Ceil(float64(state.IntervalDays) * easyBonus))
		}
	}
	state.ReviewedAt = now
	state.DueAt = now.Add(time.Duration(state.IntervalDays) * day)
	return state
}

// IsDue reports whether the card should be practiced at now.
func IsDue(state model.CardReview, now time.Time) bool {
	return !state.DueAt.After(now)
}

func clampRating(r stats.Rating) stats.Rating {
	if r < stats.Again {
		return stats.Again
	}
	if r > stats.Easy {
		return stats.Easy
	}
	return r
}
