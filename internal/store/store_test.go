package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/cardtype/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "cardtype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func record(deck, key string, ended time.Time, score int) model.SessionRecord {
	return model.SessionRecord{
		StartedAt:  ended.Add(-20 * time.Second),
		EndedAt:    ended,
		Deck:       deck,
		CardKey:    key,
		Prompt:     "prompt " + key,
		Target:     "target",
		DurationMs: 20000,
		Errors:     1,
		Hints:      0,
		MaxHint:    "none",
		WPM:        12.5,
		Accuracy:   0.9,
		Score:      score,
		Rating:     3,
	}
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)

	for i, deck := range []string{"french", "german", "french"} {
		rec := record(deck, "k", base.Add(time.Duration(i)*time.Hour), 50+i)
		rec.GaveUp = i == 2
		if _, err := st.InsertSession(ctx, rec, []model.CharStats{{Char: "a", Correct: 2, Incorrect: 1}}); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	all, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
	if !all[0].EndedAt.Equal(base) || all[2].Score != 52 {
		t.Fatalf("unexpected order: %+v", all)
	}
	if !all[2].GaveUp || all[0].GaveUp {
		t.Fatalf("gave_up not round-tripped: %+v", all)
	}

	french, err := st.ListSessions(ctx, model.StatsConfig{Deck: "french"})
	if err != nil {
		t.Fatalf("list french: %v", err)
	}
	if len(french) != 2 {
		t.Fatalf("expected 2 french sessions, got %d", len(french))
	}

	since := base.Add(90 * time.Minute)
	recent, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 1 || recent[0].Deck != "french" {
		t.Fatalf("unexpected since filter result: %+v", recent)
	}
}

func TestCharAggregates(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)

	var ids []int64
	for i := 0; i < 3; i++ {
		chars := []model.CharStats{
			{Char: "a", Correct: 5, Incorrect: i, LatencySumMs: 100, LatencyCount: 2},
			{Char: "b", Correct: 1, Incorrect: 0},
		}
		id, err := st.InsertSession(ctx, record("d", "k", base.Add(time.Duration(i)*time.Minute), 60), chars)
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}

	weak, err := st.GetWeakChars(ctx, 2, "d")
	if err != nil {
		t.Fatalf("weak chars: %v", err)
	}
	byChar := map[string]model.CharAggregate{}
	for _, agg := range weak {
		byChar[agg.Char] = agg
	}
	if byChar["a"].Correct != 10 || byChar["a"].Incorrect != 3 {
		t.Fatalf("expected last two sessions only, got %+v", byChar["a"])
	}
	if byChar["a"].LatencyCount != 4 {
		t.Fatalf("unexpected latency count: %+v", byChar["a"])
	}

	none, err := st.GetWeakChars(ctx, 0, "")
	if err != nil || none != nil {
		t.Fatalf("expected nil for empty window, got %v %v", none, err)
	}

	aggs, err := st.ListCharAggregatesForSessions(ctx, ids[:1])
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 chars, got %d", len(aggs))
	}
}

func TestCardScores(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	for i, score := range []int{40, 80} {
		if _, err := st.InsertSession(ctx, record("d", "one", base.Add(time.Duration(i)*time.Minute), score), nil); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if _, err := st.InsertSession(ctx, record("other", "two", base, 90), nil); err != nil {
		t.Fatalf("insert: %v", err)
	}

	scores, err := st.CardScores(ctx, "d")
	if err != nil {
		t.Fatalf("card scores: %v", err)
	}
	if len(scores) != 1 || scores[0].CardKey != "one" || scores[0].Sessions != 2 || scores[0].AvgScore != 60 {
		t.Fatalf("unexpected scores: %+v", scores)
	}
}

func TestSaveAndListReviews(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)

	r := model.CardReview{CardKey: "a", Ease: 2.5, IntervalDays: 1, Reps: 1, DueAt: now.Add(24 * time.Hour), ReviewedAt: now}
	if err := st.SaveReview(ctx, r); err != nil {
		t.Fatalf("save: %v", err)
	}
	r.IntervalDays = 6
	r.Reps = 2
	if err := st.SaveReview(ctx, r); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := st.SaveReview(ctx, model.CardReview{CardKey: "b", Ease: 1.3, DueAt: now, ReviewedAt: now}); err != nil {
		t.Fatalf("save b: %v", err)
	}

	got, err := st.ListReviews(ctx, []string{"a"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 review, got %d", len(got))
	}
	a := got["a"]
	if a.IntervalDays != 6 || a.Reps != 2 || !a.DueAt.Equal(now.Add(24*time.Hour)) {
		t.Fatalf("unexpected review: %+v", a)
	}

	all, err := st.ListReviews(ctx, nil)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(all))
	}
}
