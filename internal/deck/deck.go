// Package deck loads flashcards from Anki plain-text exports.
package deck

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/verte-zerg/cardtype/internal/textnorm"
)

var (
	cardNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/verte-zerg/cardtype/card"))
	soundRe       = regexp.MustCompile(`\[sound:([^\]]+)\]`)
)

// Card is one practicable note.
type Card struct {
	Key    string
	Deck   string
	Prompt string
	Target string
	Audio  string
	Line   int
}

// Warning reports a skipped or suspicious line.
type Warning struct {
	Line    int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}

// Deck is a parsed export file.
type Deck struct {
	Name       string
	Path       string
	Separator  rune
	HTML       bool
	Columns    []string
	DeckColumn int
	Cards      []Card
	Warnings   []Warning
}

// Options controls how fields become practice text.
type Options struct {
	Mappings []FieldMapping
	Text     textnorm.Options
}

// DefaultOptions uses the default field mapping and text normalisation.
func DefaultOptions() Options {
	return Options{Text: textnorm.DefaultOptions()}
}

// Key derives the stable identifier of a prompt/target pair.
func Key(prompt, target string) string {
	return uuid.NewSHA1(cardNamespace, []byte(prompt+"\x1f"+target)).String()
}

// Load reads and parses the export at path.
func Load(path string, opts Options) (*Deck, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open deck: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only deck.
			_ = cerr
		}
	}()
	d, err := Parse(file, NameFromPath(path), opts)
	if err != nil {
		return nil, err
	}
	d.Path = path
	return d, nil
}

// NameFromPath returns the file name without extension.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Parse reads an export from r. name is used as the deck name when the
// export has no deck column.
func Parse(r io.Reader, name string, opts Options) (*Deck, error) {
	d := &Deck{Name: name, Separator: '\t', HTML: true, DeckColumn: -1}

	br := bufio.NewReader(r)
	headerLines := 0
	for {
		peek, err := br.Peek(1)
		if err != nil || peek[0] != '#' {
			break
		}
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read deck header: %w", err)
		}
		headerLines++
		if herr := d.applyHeader(strings.TrimRight(line, "\r\n")); herr != nil {
			return nil, fmt.Errorf("line %d: %w", headerLines, herr)
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}

	body, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck: %w", err)
	}
	reader := csv.NewReader(bytes.NewReader(body))
	reader.Comma = d.Separator
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	columns := d.Columns
	if len(columns) == 0 {
		columns = []string{"Front", "Back"}
	}
	resolved := map[string]Columns{}
	text := opts.Text
	if !d.HTML {
		text.RemoveHTMLTags = false
		text.HandleEntities = false
		text.ReplaceFormatting = false
		text.PreserveLineBreaks = false
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse deck: %w", err)
		}
		line, _ := reader.FieldPos(0)
		line += headerLines
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		deckName := d.Name
		if d.DeckColumn >= 0 && d.DeckColumn < len(record) {
			deckName = strings.TrimSpace(record[d.DeckColumn])
		}
		cols, ok := resolved[deckName]
		if !ok {
			cols, err = Select(opts.Mappings, deckName).Resolve(columns)
			if err != nil {
				return nil, fmt.Errorf("deck %q: %w", deckName, err)
			}
			resolved[deckName] = cols
		}

		card, warn := buildCard(record, cols, deckName, text)
		if warn != "" {
			d.Warnings = append(d.Warnings, Warning{Line: line, Message: warn})
			continue
		}
		card.Line = line
		d.Cards = append(d.Cards, card)
	}
	return d, nil
}

func buildCard(record []string, cols Columns, deckName string, text textnorm.Options) (Card, string) {
	if cols.Prompt >= len(record) || cols.Target >= len(record) {
		return Card{}, fmt.Sprintf("expected at least %d fields, got %d", max(cols.Prompt, cols.Target)+1, len(record))
	}
	audio := ""
	if cols.Audio >= 0 && cols.Audio < len(record) {
		if m := soundRe.FindStringSubmatch(record[cols.Audio]); m != nil {
			audio = m[1]
		}
	}
	prompt := textnorm.Process(soundRe.ReplaceAllString(record[cols.Prompt], ""), text)
	target := textnorm.Process(soundRe.ReplaceAllString(record[cols.Target], ""), text)
	if target == "" {
		return Card{}, "target field is empty"
	}
	return Card{
		Key:    Key(prompt, target),
		Deck:   deckName,
		Prompt: prompt,
		Target: target,
		Audio:  audio,
	}, ""
}

func (d *Deck) applyHeader(line string) error {
	key, value, ok := strings.Cut(strings.TrimPrefix(line, "#"), ":")
	if !ok {
		return nil
	}
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "separator":
		sep, err := parseSeparator(value)
		if err != nil {
			return err
		}
		d.Separator = sep
	case "html":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid html header %q", value)
		}
		d.HTML = b
	case "columns":
		d.Columns = strings.Split(value, string(d.Separator))
		if len(d.Columns) == 1 && d.Separator != '\t' {
			d.Columns = strings.Split(value, "\t")
		}
	case "deck column":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid deck column %q", value)
		}
		d.DeckColumn = n - 1
	}
	return nil
}

func parseSeparator(value string) (rune, error) {
	switch strings.ToLower(value) {
	case "tab":
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	case "space":
		return ' ', nil
	case "pipe":
		return '|', nil
	case "colon":
		return ':', nil
	}
	runes := []rune(value)
	if len(runes) == 1 && runes[0] != '"' && runes[0] != '\n' && runes[0] != '\r' {
		return runes[0], nil
	}
	return 0, fmt.Errorf("unsupported separator %q", value)
}
