package stats

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/verte-zerg/cardtype/internal/logger"
	"github.com/verte-zerg/cardtype/internal/segment"
)

// Summary is a flat view of a session for display and export.
type Summary struct {
	Running        bool    `yaml:"running"`
	DurationSecs   float64 `yaml:"duration_seconds"`
	FormattedTime  string  `yaml:"formatted_time"`
	ErrorCount     int     `yaml:"error_count"`
	HintCount      int     `yaml:"hint_count"`
	CharacterCount int     `yaml:"character_count"`
	WordCount      int     `yaml:"word_count"`
	WPM            float64 `yaml:"wpm"`
	Accuracy       float64 `yaml:"accuracy"`
	Score          int     `yaml:"score"`
}

// Option configures a Collector.
type Option func(*Collector)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		c.now = now
	}
}

// WithLogger sets the logger used to report callback failures.
func WithLogger(l logger.Logger) Option {
	return func(c *Collector) {
		c.log = l
	}
}

// OnUpdate registers fn to run after every mutation with the new snapshot.
func OnUpdate(fn func(Session)) Option {
	return func(c *Collector) {
		c.onUpdate = fn
	}
}

// Collector tracks one practice session. Writers publish a fresh Session
// value on every change so readers on other goroutines always see a
// consistent snapshot.
type Collector struct {
	now      func() time.Time
	log      logger.Logger
	onUpdate func(Session)
	current  atomic.Pointer[Session]
}

// NewCollector returns an idle collector.
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		now: time.Now,
		log: logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins a session over target, discarding any previous one.
func (c *Collector) Start(target string) {
	s := &Session{
		StartTime:      c.now(),
		CharacterCount: len([]rune(target)),
		WordCount:      segment.Count(target),
	}
	c.current.Store(s)
	c.notify(*s)
}

// End freezes the session clock. Ending twice or before Start is ignored.
func (c *Collector) End() {
	c.update(func(s *Session) bool {
		if s.Ended {
			return false
		}
		s.Ended = true
		s.EndTime = c.now()
		return true
	})
}

// IncrementErrors records one wrong keystroke.
func (c *Collector) IncrementErrors() {
	c.update(func(s *Session) bool {
		s.ErrorCount++
		return true
	})
}

// IncrementHints records one hint request.
func (c *Collector) IncrementHints() {
	c.update(func(s *Session) bool {
		s.HintCount++
		return true
	})
}

// Reset drops the current session and reports an empty snapshot.
func (c *Collector) Reset() {
	c.current.Store(nil)
	c.notify(Session{})
}

// Snapshot returns the current session and whether one exists.
func (c *Collector) Snapshot() (Session, bool) {
	s := c.current.Load()
	if s == nil {
		return Session{}, false
	}
	return *s, true
}

// IsRunning reports whether a session has started and not ended.
func (c *Collector) IsRunning() bool {
	s, ok := c.Snapshot()
	return ok && !s.Ended
}

// Elapsed is the session duration, zero when there is no session.
func (c *Collector) Elapsed() time.Duration {
	s, ok := c.Snapshot()
	if !ok {
		return 0
	}
	return s.Duration(c.now())
}

// WPM is the live words per minute.
func (c *Collector) WPM() float64 {
	s, ok := c.Snapshot()
	if !ok {
		return 0
	}
	return s.WPM(c.now())
}

// Accuracy is the character-count based accuracy.
func (c *Collector) Accuracy() float64 {
	s, ok := c.Snapshot()
	if !ok {
		return 1.0
	}
	return s.Accuracy()
}

// Score is the live composite score.
func (c *Collector) Score() int {
	s, ok := c.Snapshot()
	if !ok {
		return 0
	}
	return s.Score(c.now())
}

// PracticeStats builds the result record from the current snapshot.
func (c *Collector) PracticeStats() PracticeStats {
	s, ok := c.Snapshot()
	if !ok {
		return PracticeStats{}
	}
	now := c.now()
	return PracticeStats{
		TimeSeconds: s.Duration(now).Seconds(),
		ErrorCount:  s.ErrorCount,
		HintCount:   s.HintCount,
		Score:       s.Score(now),
	}
}

// FormattedTime renders the elapsed time as MM:SS.
func (c *Collector) FormattedTime() string {
	return FormatClock(c.Elapsed())
}

// FormattedStats renders a one-line status. Hints are omitted when none
// were used.
func (c *Collector) FormattedStats() string {
	s, ok := c.Snapshot()
	if !ok {
		return "No active session"
	}
	now := c.now()
	line := fmt.Sprintf("Time: %s, Errors: %d", FormatClock(s.Duration(now)), s.ErrorCount)
	if s.HintCount > 0 {
		line += fmt.Sprintf(", Hints: %d", s.HintCount)
	}
	return line + fmt.Sprintf(", WPM: %.1f, Accuracy: %.1f%%", s.WPM(now), s.Accuracy()*100)
}

// Summary returns every derived value at once.
func (c *Collector) Summary() Summary {
	s, ok := c.Snapshot()
	if !ok {
		return Summary{FormattedTime: FormatClock(0), Accuracy: 1.0}
	}
	now := c.now()
	d := s.Duration(now)
	return Summary{
		Running:        !s.Ended,
		DurationSecs:   d.Seconds(),
		FormattedTime:  FormatClock(d),
		ErrorCount:     s.ErrorCount,
		HintCount:      s.HintCount,
		CharacterCount: s.CharacterCount,
		WordCount:      s.WordCount,
		WPM:            s.WPM(now),
		Accuracy:       s.Accuracy(),
		Score:          s.Score(now),
	}
}

// FormatClock renders d as zero-padded minutes and seconds.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func (c *Collector) update(mutate func(*Session) bool) {
	for {
		old := c.current.Load()
		if old == nil {
			return
		}
		next := *old
		if !mutate(&next) {
			return
		}
		if c.current.CompareAndSwap(old, &next) {
			c.notify(next)
			return
		}
	}
}

func (c *Collector) notify(s Session) {
	if c.onUpdate == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Msg("stats update callback failed")
		}
	}()
	c.onUpdate(s)
}
