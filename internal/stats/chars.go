package stats

import (
	"sort"
	"time"

	"github.com/verte-zerg/cardtype/internal/model"
)

type charStat struct {
	correct      int
	incorrect    int
	latencySumMs int64
	latencyCount int64
}

// CharTally accumulates per-character accuracy and latency for a session.
// Spaces are not tallied.
type CharTally struct {
	stats         map[rune]*charStat
	prevCorrectAt time.Time
}

// NewCharTally returns an empty tally.
func NewCharTally() *CharTally {
	return &CharTally{stats: map[rune]*charStat{}}
}

// Record counts one keystroke against expected at time at.
func (t *CharTally) Record(expected rune, correct bool, at time.Time) {
	if expected == ' ' {
		return
	}
	entry, ok := t.stats[expected]
	if !ok {
		entry = &charStat{}
		t.stats[expected] = entry
	}
	if !correct {
		entry.incorrect++
		return
	}
	entry.correct++
	if !t.prevCorrectAt.IsZero() {
		entry.latencySumMs += at.Sub(t.prevCorrectAt).Milliseconds()
		entry.latencyCount++
	}
	t.prevCorrectAt = at
}

// Reset clears all counts.
func (t *CharTally) Reset() {
	t.stats = map[rune]*charStat{}
	t.prevCorrectAt = time.Time{}
}

// Stats returns the tally sorted by character.
func (t *CharTally) Stats() []model.CharStats {
	out := make([]model.CharStats, 0, len(t.stats))
	for ch, entry := range t.stats {
		out = append(out, model.CharStats{
			Char:         string(ch),
			Correct:      entry.correct,
			Incorrect:    entry.incorrect,
			LatencySumMs: entry.latencySumMs,
			LatencyCount: entry.latencyCount,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Char < out[j].Char
	})
	return out
}
