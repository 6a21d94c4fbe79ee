package store

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/verte-zerg/cardtype/internal/model"
)

var charAggColumns = []string{
	"cs.char",
	"SUM(cs.correct)",
	"SUM(cs.incorrect)",
	"SUM(cs.latency_sum_ms)",
	"SUM(cs.latency_count)",
}

// GetWeakChars aggregates character stats over the most recent sessions.
func (s *Store) GetWeakChars(ctx context.Context, window int, deck string) ([]model.CharAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	recent := sqlBuilder.Select("id").From("sessions").OrderBy("ended_at DESC", "id DESC").Limit(uint64(window))
	if deck != "" {
		recent = recent.Where(squirrel.Eq{"deck": deck})
	}
	q := sqlBuilder.Select(charAggColumns...).
		From("session_char_stats cs").
		JoinClause(recent.Prefix("JOIN (").Suffix(") r ON r.id = cs.session_id")).
		GroupBy("cs.char")
	return s.queryCharAggregates(ctx, q)
}

// ListCharAggregatesForSessions aggregates per-character stats across sessions.
func (s *Store) ListCharAggregatesForSessions(ctx context.Context, sessionIDs []int64) ([]model.CharAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	q := sqlBuilder.Select(charAggColumns...).
		From("session_char_stats cs").
		Where(squirrel.Eq{"cs.session_id": sessionIDs}).
		GroupBy("cs.char")
	return s.queryCharAggregates(ctx, q)
}

func (s *Store) queryCharAggregates(ctx context.Context, q squirrel.SelectBuilder) ([]model.CharAggregate, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate char stats: %w", err)
	}
	defer closeRows(rows)

	var result []model.CharAggregate
	for rows.Next() {
		var agg model.CharAggregate
		if err := rows.Scan(&agg.Char, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
