// Package tui provides the Bubble Tea practice session.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/cardtype/internal/deck"
	"github.com/verte-zerg/cardtype/internal/engine"
	"github.com/verte-zerg/cardtype/internal/hint"
	"github.com/verte-zerg/cardtype/internal/logger"
	"github.com/verte-zerg/cardtype/internal/model"
	"github.com/verte-zerg/cardtype/internal/render"
	"github.com/verte-zerg/cardtype/internal/review"
	"github.com/verte-zerg/cardtype/internal/segment"
	"github.com/verte-zerg/cardtype/internal/stats"
	"github.com/verte-zerg/cardtype/internal/store"
)

const tickInterval = time.Second

type tickMsg time.Time

// Outcome is the saved result of one card.
type Outcome struct {
	Card    deck.Card
	Stats   stats.PracticeStats
	Rating  stats.Rating
	GaveUp  bool
	Skipped bool
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the session logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Model) {
		m.log = l
	}
}

// WithClock replaces time.Now for the engine clock and saved timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// Model implements the Bubble Tea practice UI over a queue of cards.
type Model struct {
	config    model.Config
	store     *store.Store
	log       logger.Logger
	now       func() time.Time
	resetMode engine.ResetMode
	theme     render.Theme

	cards []deck.Card
	index int

	engine    *engine.Engine
	hints     *hint.Manager
	collector *stats.Collector
	tally     *stats.CharTally
	shown     *hint.Hint
	maxHint   hint.Level
	note      string

	outcomes []Outcome
	done     bool

	keys keyMap
	help help.Model

	width  int
	height int
}

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3"))
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel builds a practice session over cards. The config must already
// be validated.
func NewModel(cfg model.Config, st *store.Store, cards []deck.Card, opts ...Option) (*Model, error) {
	resetMode, err := engine.ParseResetMode(cfg.ResetMode)
	if err != nil {
		return nil, fmt.Errorf("failed to build session: %w", err)
	}
	mode, err := render.ParseMode(cfg.InputMode)
	if err != nil {
		return nil, fmt.Errorf("failed to build session: %w", err)
	}
	m := &Model{
		config:    cfg,
		store:     st,
		log:       logger.Nop(),
		now:       time.Now,
		resetMode: resetMode,
		theme:     render.ThemeFor(mode),
		cards:     cards,
		tally:     stats.NewCharTally(),
		keys:      defaultKeys(),
		help:      help.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.collector = stats.NewCollector(
		stats.WithClock(m.now),
		stats.WithLogger(m.log),
		stats.OnUpdate(func(s stats.Session) {
			m.log.Debug().Int("errors", s.ErrorCount).Int("hints", s.HintCount).Bool("ended", s.Ended).Msg("session updated")
		}),
	)
	m.engine = engine.New("", cfg.Tolerance)
	if len(cards) == 0 {
		m.done = true
		return m, nil
	}
	m.loadCard()
	return m, nil
}

// Outcomes returns the results recorded so far.
func (m *Model) Outcomes() []Outcome {
	return append([]Outcome(nil), m.outcomes...)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if !m.config.ShowTimer {
		return nil
	}
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		if m.done || !m.config.ShowTimer {
			return m, nil
		}
		return m, tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.done {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyRunes:
			if string(msg.Runes) == "q" {
				return m, tea.Quit
			}
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Hint):
		m.showHint()
	case key.Matches(msg, m.keys.Reset):
		m.reset()
	case key.Matches(msg, m.keys.Skip):
		m.skip()
	case key.Matches(msg, m.keys.GiveUp):
		m.finishCard(true)
	case key.Matches(msg, m.keys.Next):
		if m.engine.IsComplete() {
			m.finishCard(false)
		}
	default:
		switch msg.Type {
		case tea.KeyBackspace, tea.KeyDelete, tea.KeyCtrlH:
			m.applyInput(engine.Backspace())
		case tea.KeySpace:
			m.typeRunes([]rune{' '})
		case tea.KeyRunes:
			if msg.Paste && len(msg.Runes) > 1 {
				m.rejectPaste(msg.Runes)
				break
			}
			m.typeRunes(msg.Runes)
		}
	}
	return m, nil
}

// rejectPaste drops a multi-character paste. Only single keystrokes count
// as input.
func (m *Model) rejectPaste(runes []rune) {
	if _, err := m.engine.ProcessText(string(runes)); err != nil {
		m.log.Debug().Err(err).Int("runes", len(runes)).Msg("paste ignored")
	}
	m.note = "paste ignored"
}

func (m *Model) typeRunes(runes []rune) {
	for _, r := range runes {
		if m.done || m.engine.IsComplete() {
			return
		}
		m.applyInput(engine.Key(r))
	}
}

func (m *Model) applyInput(in engine.Input) {
	if m.engine.IsComplete() {
		return
	}
	if _, ok := m.collector.Snapshot(); !ok && in.Kind == engine.KindRune {
		m.collector.Start(m.engine.Target())
	}

	target := []rune(m.engine.Target())
	pos := m.engine.Position()
	res := m.engine.ProcessInput(in)
	m.note = res.Note

	if in.Kind != engine.KindRune {
		return
	}
	if res.ErrorOccurred {
		m.collector.IncrementErrors()
	}
	// A keystroke absorbed by tolerance neither advances nor errs and
	// says nothing about target[pos].
	consumed := res.Position != pos || res.ErrorOccurred
	if consumed && pos < len(target) && !segment.IsSpace(target[pos]) {
		m.tally.Record(target[pos], res.IsCorrect, m.now())
	}
	if res.IsCorrect && m.shown != nil && m.shown.Level == hint.Character {
		m.shown = nil
	}
	if res.IsComplete {
		m.collector.End()
		if m.config.AutoFinish {
			m.finishCard(false)
			return
		}
		m.keys.Next.SetEnabled(true)
	}
}

func (m *Model) showHint() {
	if !m.hints.Available() {
		return
	}
	if _, ok := m.collector.Snapshot(); !ok {
		m.collector.Start(m.engine.Target())
	}
	level := m.hints.Cycle()
	if level > m.maxHint {
		m.maxHint = level
	}
	m.collector.IncrementHints()
	m.shown = m.hints.Get(m.engine.Position(), level)
	m.log.Debug().Str("level", level.String()).Int("position", m.engine.Position()).Msg("hint shown")
}

func (m *Model) reset() {
	if !m.engine.Reset(m.resetMode) {
		return
	}
	m.hints.Reset()
	m.shown = nil
	m.note = ""
	m.keys.Next.SetEnabled(false)
	if s, ok := m.collector.Snapshot(); m.resetMode == engine.ResetSentence || (ok && s.Ended) {
		m.collector.Reset()
	}
}

func (m *Model) skip() {
	card := m.cards[m.index]
	m.log.Info().Str("card", card.Key).Msg("card skipped")
	m.outcomes = append(m.outcomes, Outcome{Card: card, Skipped: true})
	m.advance()
}

// finishCard saves the current card and moves on. Giving up always rates
// the card Again.
func (m *Model) finishCard(gaveUp bool) {
	card := m.cards[m.index]
	now := m.now()
	snapshot, started := m.collector.Snapshot()
	if !started {
		m.collector.Start(card.Target)
		snapshot, _ = m.collector.Snapshot()
	}
	m.collector.End()

	ps := m.collector.PracticeStats()
	summary := m.collector.Summary()
	rating := ps.Rating()
	if gaveUp {
		rating = stats.Again
	}

	rec := model.SessionRecord{
		StartedAt:  snapshot.StartTime,
		EndedAt:    now,
		Deck:       card.Deck,
		CardKey:    card.Key,
		Prompt:     card.Prompt,
		Target:     card.Target,
		DurationMs: int64(ps.TimeSeconds * 1000),
		Errors:     ps.ErrorCount,
		Hints:      ps.HintCount,
		MaxHint:    m.maxHint.String(),
		WPM:        summary.WPM,
		Accuracy:   summary.Accuracy,
		Score:      ps.Score,
		Rating:     int(rating),
		GaveUp:     gaveUp,
	}
	m.save(rec, rating)

	m.log.Info().
		Str("card", card.Key).
		Int("score", ps.Score).
		Str("rating", rating.String()).
		Bool("gave_up", gaveUp).
		Msg("card finished")
	m.outcomes = append(m.outcomes, Outcome{Card: card, Stats: ps, Rating: rating, GaveUp: gaveUp})
	m.advance()
}

func (m *Model) save(rec model.SessionRecord, rating stats.Rating) {
	if m.store == nil {
		return
	}
	ctx := context.Background()
	if _, err := m.store.InsertSession(ctx, rec, m.tally.Stats()); err != nil {
		m.log.Error().Err(err).Str("card", rec.CardKey).Msg("failed to save session")
	}
	reviews, err := m.store.ListReviews(ctx, []string{rec.CardKey})
	if err != nil {
		m.log.Error().Err(err).Str("card", rec.CardKey).Msg("failed to load review state")
		return
	}
	state, ok := reviews[rec.CardKey]
	if !ok {
		state = review.New(rec.CardKey, rec.EndedAt)
	}
	state = review.Apply(state, rating, rec.EndedAt)
	if err := m.store.SaveReview(ctx, state); err != nil {
		m.log.Error().Err(err).Str("card", rec.CardKey).Msg("failed to save review state")
	}
}

func (m *Model) advance() {
	m.index++
	if m.index >= len(m.cards) {
		m.done = true
		m.log.Info().Int("cards", len(m.outcomes)).Msg("practice finished")
		return
	}
	m.loadCard()
}

func (m *Model) loadCard() {
	card := m.cards[m.index]
	m.engine.SetTargetText(card.Target)
	m.hints = hint.NewManager(card.Target)
	m.collector.Reset()
	m.tally.Reset()
	m.shown = nil
	m.maxHint = hint.None
	m.note = ""
	m.keys.Next.SetEnabled(false)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.done {
		return m.place(m.renderSummary(), "")
	}
	contentWidth := m.width * 7 / 10
	card := m.cards[m.index]

	var b strings.Builder
	b.WriteString(footerStyle.Render(fmt.Sprintf("Card %d/%d · %s", m.index+1, len(m.cards), card.Deck)))
	b.WriteString("\n\n")
	if card.Prompt != "" {
		b.WriteString(promptStyle.Render(card.Prompt))
		b.WriteString("\n\n")
	}
	b.WriteString(wrapText(render.Runes(m.engine.TakeSlots(), m.theme), contentWidth))
	if text := hint.Format(m.shown); text != "" {
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render(text))
	}
	if m.note != "" {
		b.WriteString("\n")
		b.WriteString(noteStyle.Render(m.note))
	}
	return m.place(b.String(), m.renderFooter())
}

func (m *Model) place(content, footer string) string {
	if m.width == 0 || m.height == 0 {
		if footer == "" {
			return content
		}
		return content + "\n\n" + footer
	}
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	footerHeight := lipgloss.Height(footer)
	body := lipgloss.Place(m.width, m.height-footerHeight, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + lipgloss.Place(m.width, footerHeight, lipgloss.Center, lipgloss.Bottom, footer)
}

func (m *Model) renderFooter() string {
	segments := []string{fmt.Sprintf("Progress %.0f%%", m.engine.ProgressPercentage()*100)}
	if m.config.ShowTimer {
		segments = append(segments, m.collector.FormattedStats())
	}
	if n := len(m.outcomes); n > 0 {
		last := m.outcomes[n-1]
		if !last.Skipped {
			segments = append(segments, fmt.Sprintf("Last %s → %s", last.Stats.CardField(), last.Rating))
		}
	}
	return footerStyle.Render(strings.Join(segments, "  ")) + "\n" + m.help.View(m.keys)
}

func (m *Model) renderSummary() string {
	practiced, total := 0, 0
	counts := map[stats.Rating]int{}
	for _, o := range m.outcomes {
		if o.Skipped {
			continue
		}
		practiced++
		total += o.Stats.Score
		counts[o.Rating]++
	}
	lines := []string{promptStyle.Render("Practice complete")}
	if practiced == 0 {
		lines = append(lines, "No cards practiced.")
	} else {
		lines = append(lines,
			fmt.Sprintf("Cards: %d", practiced),
			fmt.Sprintf("Avg Score: %.1f", float64(total)/float64(practiced)),
			fmt.Sprintf("Ratings: again %d · hard %d · good %d · easy %d",
				counts[stats.Again], counts[stats.Hard], counts[stats.Good], counts[stats.Easy]),
		)
	}
	lines = append(lines, "", footerStyle.Render("Press q or enter to quit"))
	return strings.Join(lines, "\n")
}
