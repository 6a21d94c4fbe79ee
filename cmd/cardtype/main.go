// Package main provides the CLI entrypoint for cardtype.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/cardtype/internal/config"
	"github.com/verte-zerg/cardtype/internal/deck"
	"github.com/verte-zerg/cardtype/internal/generator"
	"github.com/verte-zerg/cardtype/internal/logger"
	"github.com/verte-zerg/cardtype/internal/model"
	"github.com/verte-zerg/cardtype/internal/stats"
	"github.com/verte-zerg/cardtype/internal/store"
	"github.com/verte-zerg/cardtype/internal/textnorm"
	"github.com/verte-zerg/cardtype/internal/tolerance"
	"github.com/verte-zerg/cardtype/internal/tui"
)

const defaultTrendWindow = 5

var (
	logFile  string
	logLevel string

	practiceDeck       string
	practiceLimit      int
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int
	practiceDueOnly    bool
	practiceResetMode  string
	practiceInputMode  string
	practiceShowTimer  bool
	practiceAutoFinish bool

	statsDeck   string
	statsSince  string
	statsLast   int
	statsWindow int
	statsFormat string

	checkDeck string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cardtype",
		Short:         "Type the answers to your flashcards",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path, or - for stderr (default: XDG state dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error, off)")

	rootCmd.Flags().StringVar(&practiceDeck, "deck", "", "deck export path or name in the deck directory")
	rootCmd.Flags().IntVar(&practiceLimit, "limit", config.DefaultLimit, "cards per run (0 = whole deck)")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias card order toward weak characters and low scores")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", config.DefaultWeakTop, "number of weak characters to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", config.DefaultWeakFactor, "weight factor for weak characters")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", config.DefaultWeakWindow, "number of recent sessions to compute weak chars")
	rootCmd.Flags().BoolVar(&practiceDueOnly, "due-only", false, "only practice cards whose review is due")
	rootCmd.Flags().StringVar(&practiceResetMode, "reset-mode", config.DefaultResetMode, "ctrl+r behaviour: sentence or word")
	rootCmd.Flags().StringVar(&practiceInputMode, "input-mode", config.DefaultInputMode, "highlighting: progressive or accompanying")
	rootCmd.Flags().BoolVar(&practiceShowTimer, "show-timer", true, "show live time and stats")
	rootCmd.Flags().BoolVar(&practiceAutoFinish, "auto-finish", true, "move on as soon as the target is typed")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDecksCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newCheckCmd())

	return rootCmd
}

// loadSettings reads the config file and the .env overrides.
func loadSettings() (config.FileConfig, config.Env, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, config.Env{}, fmt.Errorf("failed to load config: %w", err)
	}
	env, err := config.LoadEnv(config.DefaultEnvPath(), ".env")
	if err != nil {
		return config.FileConfig{}, config.Env{}, fmt.Errorf("failed to load environment: %w", err)
	}
	return fileCfg, env, nil
}

// setupLogger opens the log destination. Flags win over the environment,
// which wins over the config file.
func setupLogger(cmd *cobra.Command, fileCfg config.LoggingConfig, env config.Env, component string) (logger.Logger, func(), error) {
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.File)
	applyEnv(cmd, "log-level", &logLevel, env.LogLevel)

	if logFile == "-" {
		return logger.New(logger.Options{Level: logLevel, Component: component}), func() {}, nil
	}
	path := logFile
	if path == "" {
		path = config.DefaultLogPath()
	}
	f, err := logger.OpenFile(path)
	if err != nil {
		return logger.Nop(), func() {}, err
	}
	closeFn := func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}
	return logger.New(logger.Options{Level: logLevel, Component: component, Writer: f}), closeFn, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, env, err := loadSettings()
	if err != nil {
		return err
	}
	log, closeLog, err := setupLogger(cmd, fileCfg.Logging, env, "practice")
	if err != nil {
		return err
	}
	defer closeLog()

	applyStringConfig(cmd, "deck", &practiceDeck, fileCfg.Practice.Deck)
	applyEnv(cmd, "deck", &practiceDeck, env.Deck)
	applyIntConfig(cmd, "limit", &practiceLimit, fileCfg.Practice.Limit)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)
	applyBoolConfig(cmd, "due-only", &practiceDueOnly, fileCfg.Practice.DueOnly)
	applyStringConfig(cmd, "reset-mode", &practiceResetMode, fileCfg.Behavior.ResetMode)
	applyStringConfig(cmd, "input-mode", &practiceInputMode, fileCfg.Behavior.InputMode)
	applyBoolConfig(cmd, "show-timer", &practiceShowTimer, fileCfg.Behavior.ShowTimer)
	applyBoolConfig(cmd, "auto-finish", &practiceAutoFinish, fileCfg.Behavior.AutoFinish)

	cfg := model.Config{
		DeckPath:   practiceDeck,
		Limit:      practiceLimit,
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
		WeakWindow: practiceWeakWindow,
		DueOnly:    practiceDueOnly,
		ResetMode:  practiceResetMode,
		InputMode:  practiceInputMode,
		ShowTimer:  practiceShowTimer,
		AutoFinish: practiceAutoFinish,
		Tolerance:  fileCfg.Tolerance.Apply(tolerance.DefaultConfig()),
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	d, err := loadDeck(cfg.DeckPath, fileCfg.Fields)
	if err != nil {
		return err
	}
	for _, w := range d.Warnings {
		log.Warn().Str("deck", d.Name).Int("line", w.Line).Msg(w.Message)
	}
	if len(d.Cards) == 0 {
		return fmt.Errorf("deck %s has no usable cards", d.Path)
	}

	st, err := store.Open(env.DBPathOrDefault())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("failed to close db")
		}
	}()

	cards, err := selectCards(context.Background(), st, d, cfg, generator.New(), time.Now())
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No cards are due. Come back later or drop --due-only.")
		return err
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("practice needs an interactive terminal")
	}
	log.Info().Str("deck", d.Name).Int("cards", len(cards)).Msg("practice started")
	m, err := tui.NewModel(cfg, st, cards, tui.WithLogger(log))
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return printOutcomes(cmd.OutOrStdout(), m.Outcomes())
}

// resolveDeckPath accepts a path or a deck name inside the deck directory.
func resolveDeckPath(name string) (string, error) {
	candidates := []string{name}
	if !strings.ContainsRune(name, os.PathSeparator) {
		base := filepath.Join(config.DefaultDeckDir(), name)
		candidates = append(candidates, base)
		if filepath.Ext(name) == "" {
			candidates = append(candidates, base+".txt")
		}
	}
	for _, path := range candidates {
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to stat deck: %w", err)
		}
	}
	return "", fmt.Errorf("deck %q not found (looked in the current directory and %s)", name, config.DefaultDeckDir())
}

func loadDeck(name string, fields config.FieldsConfig) (*deck.Deck, error) {
	path, err := resolveDeckPath(name)
	if err != nil {
		return nil, err
	}
	opts := deck.DefaultOptions()
	opts.Mappings = fields.Mappings()
	d, err := deck.Load(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load deck: %w", err)
	}
	return d, nil
}

// selectCards applies the due filter and then orders and limits the cards.
func selectCards(ctx context.Context, st *store.Store, d *deck.Deck, cfg model.Config, gen *generator.Generator, now time.Time) ([]deck.Card, error) {
	cards := d.Cards
	if cfg.DueOnly {
		keys := make([]string, len(cards))
		for i, c := range cards {
			keys[i] = c.Key
		}
		reviews, err := st.ListReviews(ctx, keys)
		if err != nil {
			return nil, fmt.Errorf("failed to load reviews: %w", err)
		}
		cards = generator.FilterDue(cards, reviews, now)
	}
	if !cfg.FocusWeak {
		return gen.Shuffle(cards, cfg.Limit), nil
	}

	aggs, err := st.GetWeakChars(ctx, cfg.WeakWindow, d.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load weak chars: %w", err)
	}
	weakSet := stats.SelectWeakChars(aggs, cfg.WeakTop)
	scoreList, err := st.CardScores(ctx, d.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load card scores: %w", err)
	}
	if len(weakSet) == 0 && len(scoreList) == 0 {
		logErrln("no stats available for weak focus yet; using a plain shuffle")
		return gen.Shuffle(cards, cfg.Limit), nil
	}
	scores := make(map[string]model.CardScore, len(scoreList))
	for _, s := range scoreList {
		scores[s.CardKey] = s
	}
	return gen.Weighted(cards, cfg.Limit, weakSet, cfg.WeakFactor, scores), nil
}

func printOutcomes(w io.Writer, outcomes []tui.Outcome) error {
	practiced, total := 0, 0
	for _, o := range outcomes {
		if o.Skipped {
			continue
		}
		practiced++
		total += o.Stats.Score
	}
	if practiced == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "Practiced %d cards, average score %.1f\n", practiced, float64(total)/float64(practiced))
	return err
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		_, err := fmt.Fprintln(os.Stdout, path)
		return err
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the commented template unless path exists.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.DefaultTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func newDecksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decks",
		Short: "List decks in the deck directory",
		Args:  cobra.NoArgs,
		RunE:  runDecksCmd,
	}
}

func runDecksCmd(cmd *cobra.Command, _ []string) error {
	dir := config.DefaultDeckDir()
	decks, err := deck.List(dir)
	if err != nil {
		return err
	}
	if len(decks) == 0 {
		logErrf("No decks found. Export a deck from Anki as plain text into %s\n", dir)
		return fmt.Errorf("no decks found")
	}
	for _, d := range decks {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d bytes\n", d.Name, d.Modified.Format("2006-01-02"), d.Size); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsDeck, "deck", "", "deck filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsWindow, "window", defaultTrendWindow, "moving average window for the score trend")
	cmd.Flags().StringVar(&statsFormat, "format", "text", "output format: text or yaml")
	return cmd
}

func parseSince(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid --since value: %w", err)
	}
	return &parsed, nil
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsFormat != "text" && statsFormat != "yaml" {
		return fmt.Errorf("--format must be one of: text, yaml")
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	sinceTime, err := parseSince(statsSince)
	if err != nil {
		return err
	}
	_, env, err := loadSettings()
	if err != nil {
		return err
	}

	cfg := model.StatsConfig{
		Deck:   statsDeck,
		Since:  sinceTime,
		Last:   statsLast,
		Window: statsWindow,
	}

	st, err := store.Open(env.DBPathOrDefault())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if statsFormat == "yaml" {
		return report.RenderYAML(cmd.OutOrStdout())
	}
	return report.RenderText(cmd.OutOrStdout(), cfg.Window)
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Parse a deck and report problems",
		Args:  cobra.NoArgs,
		RunE:  runCheckCmd,
	}
	cmd.Flags().StringVar(&checkDeck, "deck", "", "deck export path or name")
	return cmd
}

func runCheckCmd(cmd *cobra.Command, _ []string) error {
	if checkDeck == "" {
		return fmt.Errorf("--deck must be set")
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	d, err := loadDeck(checkDeck, fileCfg.Fields)
	if err != nil {
		return err
	}
	return writeCheckReport(cmd.OutOrStdout(), d)
}

// writeCheckReport prints the card count and every problem found.
func writeCheckReport(w io.Writer, d *deck.Deck) error {
	lines := []string{
		fmt.Sprintf("deck: %s (%s)", d.Name, d.Path),
		fmt.Sprintf("cards: %d", len(d.Cards)),
	}
	problems := make([]string, 0, len(d.Warnings))
	for _, warn := range d.Warnings {
		problems = append(problems, warn.String())
	}
	for _, c := range d.Cards {
		a := textnorm.Analyze(c.Target)
		switch {
		case a.HasHTML:
			problems = append(problems, fmt.Sprintf("line %d: target still contains HTML", c.Line))
		case a.HasEntities:
			problems = append(problems, fmt.Sprintf("line %d: target still contains HTML entities", c.Line))
		}
		if c.Prompt == "" {
			problems = append(problems, fmt.Sprintf("line %d: prompt field is empty", c.Line))
		}
	}
	if len(problems) == 0 {
		lines = append(lines, "no problems found")
	} else {
		lines = append(lines, fmt.Sprintf("problems: %d", len(problems)))
		lines = append(lines, problems...)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// applyEnv overrides the config file value with a non-empty environment
// value unless the flag was given.
func applyEnv(cmd *cobra.Command, name string, target *string, value string) {
	if value == "" {
		return
	}
	applyStringConfig(cmd, name, target, &value)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
