package store

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/verte-zerg/cardtype/internal/model"
)

// InsertSession stores a finished practice and its per-character stats.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord, chars []model.CharStats) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	query, args, err := sqlBuilder.Insert("sessions").
		Columns("started_at", "ended_at", "deck", "card_key", "prompt", "target", "duration_ms",
			"errors", "hints", "max_hint", "wpm", "accuracy", "score", "rating", "gave_up").
		Values(formatTime(rec.StartedAt), formatTime(rec.EndedAt), rec.Deck, rec.CardKey, rec.Prompt, rec.Target,
			rec.DurationMs, rec.Errors, rec.Hints, rec.MaxHint, rec.WPM, rec.Accuracy, rec.Score, rec.Rating, rec.GaveUp).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(chars) > 0 {
		insert := sqlBuilder.Insert("session_char_stats").
			Columns("session_id", "char", "correct", "incorrect", "latency_sum_ms", "latency_count")
		for _, cs := range chars {
			insert = insert.Values(id, cs.Char, cs.Correct, cs.Incorrect, cs.LatencySumMs, cs.LatencyCount)
		}
		query, args, err = insert.ToSql()
		if err != nil {
			return 0, fmt.Errorf("failed to build char stats insert: %w", err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("failed to insert char stats: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit session: %w", err)
	}
	return id, nil
}

// ListSessions returns sessions matching cfg, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	q := sqlBuilder.Select("id", "ended_at", "deck", "card_key", "prompt", "duration_ms",
		"errors", "hints", "wpm", "accuracy", "score", "rating", "gave_up").
		From("sessions").
		OrderBy("ended_at ASC", "id ASC")
	if cfg.Deck != "" {
		q = q.Where(squirrel.Eq{"deck": cfg.Deck})
	}
	if cfg.Since != nil {
		q = q.Where(squirrel.GtOrEq{"ended_at": formatTime(*cfg.Since)})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer closeRows(rows)

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Deck, &agg.CardKey, &agg.Prompt, &agg.DurationMs,
			&agg.Errors, &agg.Hints, &agg.WPM, &agg.Accuracy, &agg.Score, &agg.Rating, &agg.GaveUp); err != nil {
			return nil, err
		}
		if agg.EndedAt, err = parseTime(endedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// CardScores returns the average score of each practiced card in deck, or
// of every card when deck is empty.
func (s *Store) CardScores(ctx context.Context, deck string) ([]model.CardScore, error) {
	q := sqlBuilder.Select("card_key", "COUNT(*)", "AVG(score)").
		From("sessions").
		GroupBy("card_key").
		OrderBy("card_key")
	if deck != "" {
		q = q.Where(squirrel.Eq{"deck": deck})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load card scores: %w", err)
	}
	defer closeRows(rows)

	var scores []model.CardScore
	for rows.Next() {
		var cs model.CardScore
		if err := rows.Scan(&cs.CardKey, &cs.Sessions, &cs.AvgScore); err != nil {
			return nil, err
		}
		scores = append(scores, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}
