package deck

import (
	"fmt"
	"strconv"
	"strings"
)

// MappingKind tags which payload a FieldMapping carries.
type MappingKind int

const (
	KindLegacy MappingKind = iota
	KindDeck
)

// LegacyMapping names the fields to use for every deck.
type LegacyMapping struct {
	Prompt string
	Target string
	Audio  string
}

// DeckMapping names the fields to use for one deck only.
type DeckMapping struct {
	Deck   string
	Prompt string
	Target string
	Audio  string
}

// FieldMapping is either a LegacyMapping or a DeckMapping.
type FieldMapping struct {
	Kind   MappingKind
	legacy LegacyMapping
	deck   DeckMapping
}

// Legacy wraps a global mapping.
func Legacy(m LegacyMapping) FieldMapping {
	return FieldMapping{Kind: KindLegacy, legacy: m}
}

// ForDeck wraps a per-deck mapping.
func ForDeck(m DeckMapping) FieldMapping {
	return FieldMapping{Kind: KindDeck, deck: m}
}

// DefaultMapping reads the prompt from Front and the target from Back.
func DefaultMapping() FieldMapping {
	return Legacy(LegacyMapping{Prompt: "Front", Target: "Back"})
}

// Fields returns the prompt, target and audio field names.
func (m FieldMapping) Fields() (prompt, target, audio string) {
	if m.Kind == KindDeck {
		return m.deck.Prompt, m.deck.Target, m.deck.Audio
	}
	return m.legacy.Prompt, m.legacy.Target, m.legacy.Audio
}

// Deck returns the deck a per-deck mapping is bound to, or "".
func (m FieldMapping) Deck() string {
	if m.Kind == KindDeck {
		return m.deck.Deck
	}
	return ""
}

// AppliesTo reports whether the mapping may be used for deck.
func (m FieldMapping) AppliesTo(deck string) bool {
	return m.Kind == KindLegacy || strings.EqualFold(m.deck.Deck, deck)
}

// Select picks the mapping for deck. A per-deck mapping beats a legacy one,
// and DefaultMapping is used when nothing applies.
func Select(mappings []FieldMapping, deck string) FieldMapping {
	var legacy *FieldMapping
	for i := range mappings {
		m := mappings[i]
		if m.Kind == KindDeck && m.AppliesTo(deck) {
			return m
		}
		if m.Kind == KindLegacy && legacy == nil {
			legacy = &mappings[i]
		}
	}
	if legacy != nil {
		return *legacy
	}
	return DefaultMapping()
}

// Columns are resolved 0-based field indexes. Audio is -1 when unmapped.
type Columns struct {
	Prompt int
	Target int
	Audio  int
}

// Resolve turns field names into indexes within columns. A name may also
// be a 1-based column number.
func (m FieldMapping) Resolve(columns []string) (Columns, error) {
	prompt, target, audio := m.Fields()
	var out Columns
	var err error
	if out.Prompt, err = lookup(columns, prompt); err != nil {
		return Columns{}, fmt.Errorf("failed to resolve prompt field: %w", err)
	}
	if out.Target, err = lookup(columns, target); err != nil {
		return Columns{}, fmt.Errorf("failed to resolve target field: %w", err)
	}
	out.Audio = -1
	if audio != "" {
		if out.Audio, err = lookup(columns, audio); err != nil {
			return Columns{}, fmt.Errorf("failed to resolve audio field: %w", err)
		}
	}
	return out, nil
}

func lookup(columns []string, name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("field name is empty")
	}
	if n, err := strconv.Atoi(name); err == nil {
		if n < 1 {
			return 0, fmt.Errorf("column %d out of range", n)
		}
		return n - 1, nil
	}
	for i, col := range columns {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("field %q not found in columns %v", name, columns)
}
