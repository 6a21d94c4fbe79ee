package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/cardtype/internal/deck"
	"github.com/verte-zerg/cardtype/internal/tolerance"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice  PracticeConfig  `toml:"practice"`
	Behavior  BehaviorConfig  `toml:"behavior"`
	Tolerance ToleranceConfig `toml:"tolerance"`
	Fields    FieldsConfig    `toml:"fields"`
	Logging   LoggingConfig   `toml:"logging"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Deck       *string  `toml:"deck"`
	Limit      *int     `toml:"limit"`
	FocusWeak  *bool    `toml:"focus-weak"`
	WeakTop    *int     `toml:"weak-top"`
	WeakFactor *float64 `toml:"weak-factor"`
	WeakWindow *int     `toml:"weak-window"`
	DueOnly    *bool    `toml:"due-only"`
}

// BehaviorConfig maps session behaviour settings.
type BehaviorConfig struct {
	ResetMode  *string `toml:"reset-mode"`
	InputMode  *string `toml:"input-mode"`
	ShowTimer  *bool   `toml:"show-timer"`
	AutoFinish *bool   `toml:"auto-finish"`
}

// ToleranceConfig maps input tolerance flags.
type ToleranceConfig struct {
	CaseSensitive           *bool `toml:"case-sensitive"`
	HandlePunctuation       *bool `toml:"handle-punctuation"`
	AutoPunctuation         *bool `toml:"auto-punctuation"`
	IgnorePunctuationErrors *bool `toml:"ignore-punctuation-errors"`
	HandleWhitespace        *bool `toml:"handle-whitespace"`
	IgnoreExtraSpaces       *bool `toml:"ignore-extra-spaces"`
	AutoCorrectSpaces       *bool `toml:"auto-correct-spaces"`
}

// FieldsConfig maps card fields. Top-level names apply to every deck and
// [[fields.deck]] entries override them for one deck.
type FieldsConfig struct {
	Prompt *string            `toml:"prompt"`
	Target *string            `toml:"target"`
	Audio  *string            `toml:"audio"`
	Decks  []DeckFieldsConfig `toml:"deck"`
}

// DeckFieldsConfig maps fields for a single deck.
type DeckFieldsConfig struct {
	Name   string `toml:"name"`
	Prompt string `toml:"prompt"`
	Target string `toml:"target"`
	Audio  string `toml:"audio"`
}

// LoggingConfig maps log settings.
type LoggingConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Apply overlays the set flags onto base.
func (t ToleranceConfig) Apply(base tolerance.Config) tolerance.Config {
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&base.CaseSensitive, t.CaseSensitive)
	set(&base.HandlePunctuation, t.HandlePunctuation)
	set(&base.AutoPunctuation, t.AutoPunctuation)
	set(&base.IgnorePunctuationErrors, t.IgnorePunctuationErrors)
	set(&base.HandleWhitespace, t.HandleWhitespace)
	set(&base.IgnoreExtraSpaces, t.IgnoreExtraSpaces)
	set(&base.AutoCorrectSpaces, t.AutoCorrectSpaces)
	return base
}

// Mappings converts the [fields] section. Per-deck entries come first so
// they win over the global mapping.
func (f FieldsConfig) Mappings() []deck.FieldMapping {
	out := make([]deck.FieldMapping, 0, len(f.Decks)+1)
	for _, d := range f.Decks {
		out = append(out, deck.ForDeck(deck.DeckMapping{
			Deck:   d.Name,
			Prompt: d.Prompt,
			Target: d.Target,
			Audio:  d.Audio,
		}))
	}
	if f.Prompt == nil && f.Target == nil && f.Audio == nil {
		return out
	}
	prompt, target, _ := deck.DefaultMapping().Fields()
	legacy := deck.LegacyMapping{Prompt: prompt, Target: target}
	if f.Prompt != nil {
		legacy.Prompt = *f.Prompt
	}
	if f.Target != nil {
		legacy.Target = *f.Target
	}
	if f.Audio != nil {
		legacy.Audio = *f.Audio
	}
	return append(out, deck.Legacy(legacy))
}
