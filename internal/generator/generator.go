// Package generator orders practice cards.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/cardtype/internal/deck"
	"github.com/verte-zerg/cardtype/internal/model"
	"github.com/verte-zerg/cardtype/internal/review"
)

// Generator produces randomized card sequences.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Shuffle returns up to count cards in uniform random order. A count of
// zero or less returns every card.
func (g *Generator) Shuffle(cards []deck.Card, count int) []deck.Card {
	out := make([]deck.Card, len(cards))
	copy(out, cards)
	g.rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return limit(out, count)
}

// Weighted picks up to count distinct cards with a bias toward targets that
// contain weak characters and cards that scored poorly before.
func (g *Generator) Weighted(cards []deck.Card, count int, weakSet map[rune]struct{}, factor float64, scores map[string]model.CardScore) []deck.Card {
	pool := make([]deck.Card, len(cards))
	copy(pool, cards)
	weights := make([]float64, len(pool))
	for i, card := range pool {
		weights[i] = Weight(card, weakSet, factor, scores)
	}

	n := len(pool)
	if count > 0 && count < n {
		n = count
	}
	result := make([]deck.Card, 0, n)
	for len(result) < n {
		total := 0.0
		for _, w := range weights {
			total += w
		}
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := len(pool) - 1
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		result = append(result, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
		weights = append(weights[:idx], weights[idx+1:]...)
	}
	return result
}

// Weight is the selection weight of card. It starts at 1, grows by factor
// per weak character in the target, and is scaled up for low past scores.
func Weight(card deck.Card, weakSet map[rune]struct{}, factor float64, scores map[string]model.CardScore) float64 {
	weakCount := 0
	for _, r := range card.Target {
		if _, ok := weakSet[r]; ok {
			weakCount++
		}
	}
	w := 1.0 + float64(weakCount)*factor
	if s, ok := scores[card.Key]; ok && s.Sessions > 0 {
		w *= 1.0 + (100.0-s.AvgScore)/100.0
	}
	return w
}

// FilterDue keeps cards that were never reviewed or are due at now.
func FilterDue(cards []deck.Card, reviews map[string]model.CardReview, now time.Time) []deck.Card {
	out := make([]deck.Card, 0, len(cards))
	for _, card := range cards {
		state, ok := reviews[card.Key]
		if !ok || review.IsDue(state, now) {
			out = append(out, card)
		}
	}
	return out
}

func limit(cards []deck.Card, count int) []deck.Card {
	if count > 0 && count < len(cards) {
		return cards[:count]
	}
	return cards
}
