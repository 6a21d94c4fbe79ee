package stats

import (
	"context"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/cardtype/internal/model"
	"github.com/verte-zerg/cardtype/internal/store"
)

const weakCharRows = 10

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionAggregate
	Chars    []model.CharAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	chars, err := st.ListCharAggregatesForSessions(ctx, sessionIDs(sessions))
	if err != nil {
		return Report{}, err
	}
	return Report{Sessions: sessions, Chars: chars}, nil
}

// RenderText writes the summary, history and weak character tables.
func (r Report) RenderText(w io.Writer, window int) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if len(r.Sessions) == 0 {
		return nil
	}
	if err := RenderHistory(w, r.Sessions, window); err != nil {
		return err
	}
	return RenderCharTable(w, FrequentChars(r.Chars, 3*weakCharRows), weakCharRows)
}

type yamlSession struct {
	EndedAt  time.Time `yaml:"ended_at"`
	Deck     string    `yaml:"deck"`
	Card     string    `yaml:"card"`
	Prompt   string    `yaml:"prompt"`
	Seconds  float64   `yaml:"seconds"`
	Errors   int       `yaml:"errors"`
	Hints    int       `yaml:"hints"`
	WPM      float64   `yaml:"wpm"`
	Accuracy float64   `yaml:"accuracy"`
	Score    int       `yaml:"score"`
	Rating   string    `yaml:"rating"`
	GaveUp   bool      `yaml:"gave_up,omitempty"`
}

type yamlChar struct {
	Char      string  `yaml:"char"`
	Accuracy  float64 `yaml:"accuracy"`
	Correct   int     `yaml:"correct"`
	Incorrect int     `yaml:"incorrect"`
}

type yamlReport struct {
	Sessions int            `yaml:"sessions"`
	Ratings  map[string]int `yaml:"ratings"`
	History  []yamlSession  `yaml:"history"`
	Chars    []yamlChar     `yaml:"chars"`
}

// RenderYAML writes the report as a YAML document.
func (r Report) RenderYAML(w io.Writer) error {
	out := yamlReport{
		Sessions: len(r.Sessions),
		Ratings:  map[string]int{},
		History:  make([]yamlSession, 0, len(r.Sessions)),
		Chars:    make([]yamlChar, 0, len(r.Chars)),
	}
	for rating, n := range RatingCounts(r.Sessions) {
		out.Ratings[rating.String()] = n
	}
	for _, s := range r.Sessions {
		out.History = append(out.History, yamlSession{
			EndedAt:  s.EndedAt.UTC(),
			Deck:     s.Deck,
			Card:     s.CardKey,
			Prompt:   s.Prompt,
			Seconds:  float64(s.DurationMs) / 1000,
			Errors:   s.Errors,
			Hints:    s.Hints,
			WPM:      s.WPM,
			Accuracy: s.Accuracy,
			Score:    s.Score,
			Rating:   Rating(s.Rating).String(),
			GaveUp:   s.GaveUp,
		})
	}
	for _, c := range r.Chars {
		out.Chars = append(out.Chars, yamlChar{
			Char:      c.Char,
			Accuracy:  accuracy(c),
			Correct:   c.Correct,
			Incorrect: c.Incorrect,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}
