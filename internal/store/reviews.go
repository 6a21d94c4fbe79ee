package store

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/verte-zerg/cardtype/internal/model"
)

// SaveReview inserts or replaces the scheduling state of a card.
func (s *Store) SaveReview(ctx context.Context, r model.CardReview) error {
	query, args, err := sqlBuilder.Insert("card_reviews").
		Columns("card_key", "ease", "interval_days", "reps", "lapses", "due_at", "reviewed_at").
		Values(r.CardKey, r.Ease, r.IntervalDays, r.Reps, r.Lapses, formatTime(r.DueAt), formatTime(r.ReviewedAt)).
		Suffix(`ON CONFLICT(card_key) DO UPDATE SET
			ease = excluded.ease,
			interval_days = excluded.interval_days,
			reps = excluded.reps,
			lapses = excluded.lapses,
			due_at = excluded.due_at,
			reviewed_at = excluded.reviewed_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

// ListReviews returns stored review states keyed by card. An empty keys
// slice loads every review.
func (s *Store) ListReviews(ctx context.Context, keys []string) (map[string]model.CardReview, error) {
	q := sqlBuilder.Select("card_key", "ease", "interval_days", "reps", "lapses", "due_at", "reviewed_at").
		From("card_reviews")
	if len(keys) > 0 {
		q = q.Where(squirrel.Eq{"card_key": keys})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer closeRows(rows)

	out := map[string]model.CardReview{}
	for rows.Next() {
		var r model.CardReview
		var dueAt, reviewedAt string
		if err := rows.Scan(&r.CardKey, &r.Ease, &r.IntervalDays, &r.Reps, &r.Lapses, &dueAt, &reviewedAt); err != nil {
			return nil, err
		}
		if r.DueAt, err = parseTime(dueAt); err != nil {
			return nil, err
		}
		if r.ReviewedAt, err = parseTime(reviewedAt); err != nil {
			return nil, err
		}
		out[r.CardKey] = r
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
