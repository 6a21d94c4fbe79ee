// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/cardtype/internal/tolerance"
)

// Config defines practice settings after file, env and flag resolution.
type Config struct {
	DeckPath   string  `flag:"deck" validate:"required"`
	Limit      int     `flag:"limit" validate:"gte=0"`
	FocusWeak  bool    `flag:"focus-weak"`
	WeakTop    int     `flag:"weak-top" validate:"gte=0"`
	WeakFactor float64 `flag:"weak-factor" validate:"gte=0"`
	WeakWindow int     `flag:"weak-window" validate:"gte=0"`
	DueOnly    bool    `flag:"due-only"`

	ResetMode  string `flag:"reset-mode" validate:"oneof=sentence word"`
	InputMode  string `flag:"input-mode" validate:"oneof=progressive accompanying"`
	ShowTimer  bool   `flag:"show-timer"`
	AutoFinish bool   `flag:"auto-finish"`

	Tolerance tolerance.Config
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Deck   string
	Since  *time.Time
	Last   int
	Window int
}

// SessionRecord captures one finished card practice.
type SessionRecord struct {
	StartedAt  time.Time
	EndedAt    time.Time
	Deck       string
	CardKey    string
	Prompt     string
	Target     string
	DurationMs int64
	Errors     int
	Hints      int
	MaxHint    string
	WPM        float64
	Accuracy   float64
	Score      int
	Rating     int
	GaveUp     bool
}

// CharStats stores per-character stats for a session.
type CharStats struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	Deck       string
	CardKey    string
	Prompt     string
	DurationMs int64
	Errors     int
	Hints      int
	WPM        float64
	Accuracy   float64
	Score      int
	Rating     int
	GaveUp     bool
}

// CardScore is the running performance of a single card.
type CardScore struct {
	CardKey  string
	Sessions int
	AvgScore float64
}

// CardReview is the scheduling state of a card.
type CardReview struct {
	CardKey      string
	Ease         float64
	IntervalDays int
	Reps         int
	Lapses       int
	DueAt        time.Time
	ReviewedAt   time.Time
}
