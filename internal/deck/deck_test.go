package deck

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = "#separator:tab\n" +
	"#html:true\n" +
	"#columns:Front\tBack\tSound\tDeck\n" +
	"#deck column:4\n" +
	"Hello\t<b>Bonjour</b>&nbsp;!\t[sound:bonjour.mp3]\tFrench\n" +
	"Cat\t\"Le <i>chat</i>\"\t\tFrench\n" +
	"Empty\t<br>\t\tFrench\n" +
	"Dog\tHund\t\tGerman\n"

func TestParseAnkiExport(t *testing.T) {
	opts := DefaultOptions()
	opts.Mappings = []FieldMapping{
		Legacy(LegacyMapping{Prompt: "Front", Target: "Back", Audio: "Sound"}),
		ForDeck(DeckMapping{Deck: "german", Prompt: "Back", Target: "Front"}),
	}
	d, err := Parse(strings.NewReader(sampleExport), "sample", opts)
	require.NoError(t, err)

	assert.Equal(t, '\t', d.Separator)
	assert.True(t, d.HTML)
	assert.Equal(t, []string{"Front", "Back", "Sound", "Deck"}, d.Columns)
	assert.Equal(t, 3, d.DeckColumn)

	require.Len(t, d.Cards, 3)
	first := d.Cards[0]
	assert.Equal(t, "Hello", first.Prompt)
	assert.Equal(t, "Bonjour !", first.Target)
	assert.Equal(t, "bonjour.mp3", first.Audio)
	assert.Equal(t, "French", first.Deck)
	assert.Equal(t, 5, first.Line)
	assert.Equal(t, Key("Hello", "Bonjour !"), first.Key)

	assert.Equal(t, "Le chat", d.Cards[1].Target)

	german := d.Cards[2]
	assert.Equal(t, "Hund", german.Prompt)
	assert.Equal(t, "Dog", german.Target)

	require.Len(t, d.Warnings, 1)
	assert.Equal(t, 7, d.Warnings[0].Line)
	assert.Equal(t, "line 7: target field is empty", d.Warnings[0].String())
}

func TestParseDefaultsWithoutHeaders(t *testing.T) {
	d, err := Parse(strings.NewReader("a\tb\nc\td\n"), "plain", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, d.Cards, 2)
	assert.Equal(t, "plain", d.Cards[0].Deck)
	assert.Equal(t, "b", d.Cards[0].Target)
	assert.Equal(t, 2, d.Cards[1].Line)
}

func TestParseCommaSeparatorAndNumericFields(t *testing.T) {
	export := "#separator:comma\n#html:false\nq1,\"one, two\",x\n"
	opts := DefaultOptions()
	opts.Mappings = []FieldMapping{Legacy(LegacyMapping{Prompt: "3", Target: "2"})}
	d, err := Parse(strings.NewReader(export), "csv", opts)
	require.NoError(t, err)
	require.Len(t, d.Cards, 1)
	assert.Equal(t, "x", d.Cards[0].Prompt)
	assert.Equal(t, "one, two", d.Cards[0].Target)
}

func TestParseHTMLDisabledKeepsMarkup(t *testing.T) {
	d, err := Parse(strings.NewReader("#html:false\nq\t<b>x</b> &amp;\n"), "raw", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, d.Cards, 1)
	assert.Equal(t, "<b>x</b> &amp;", d.Cards[0].Target)
}

func TestParseShortRecordWarns(t *testing.T) {
	d, err := Parse(strings.NewReader("only-one-field\n"), "short", DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, d.Cards)
	require.Len(t, d.Warnings, 1)
	assert.Contains(t, d.Warnings[0].Message, "expected at least 2 fields")
}

func TestParseBadHeaders(t *testing.T) {
	_, err := Parse(strings.NewReader("#separator:\"\n"), "bad", DefaultOptions())
	assert.Error(t, err)
	_, err = Parse(strings.NewReader("#deck column:zero\n"), "bad", DefaultOptions())
	assert.Error(t, err)

	opts := DefaultOptions()
	opts.Mappings = []FieldMapping{Legacy(LegacyMapping{Prompt: "Question", Target: "Back"})}
	_, err = Parse(strings.NewReader("a\tb\n"), "bad", opts)
	assert.ErrorContains(t, err, "prompt field")
}

func TestKeyIsStable(t *testing.T) {
	assert.Equal(t, Key("a", "b"), Key("a", "b"))
	assert.NotEqual(t, Key("a", "b"), Key("ab", ""))
	assert.Len(t, Key("a", "b"), 36)
}

func TestLoadAndList(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zeta.txt"), []byte("a\tb\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.txt"), []byte("c\td\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("skip"), 0o644))

	decks, err := List(dir)
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Equal(t, "alpha", decks[0].Name)
	assert.Equal(t, "zeta", decks[1].Name)

	d, err := Load(decks[1].Path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "zeta", d.Name)
	assert.Equal(t, decks[1].Path, d.Path)
	require.Len(t, d.Cards, 1)

	missing, err := List(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.Empty(t, missing)

	_, err = Load(filepath.Join(dir, "nope.txt"), DefaultOptions())
	assert.Error(t, err)
}
