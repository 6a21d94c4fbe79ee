package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectPrefersDeckMapping(t *testing.T) {
	legacy := Legacy(LegacyMapping{Prompt: "Front", Target: "Back"})
	spanish := ForDeck(DeckMapping{Deck: "Spanish", Prompt: "Word", Target: "Sentence", Audio: "Audio"})
	mappings := []FieldMapping{legacy, spanish}

	got := Select(mappings, "spanish")
	assert.Equal(t, KindDeck, got.Kind)
	assert.Equal(t, "Spanish", got.Deck())
	p, tg, a := got.Fields()
	assert.Equal(t, []string{"Word", "Sentence", "Audio"}, []string{p, tg, a})

	got = Select(mappings, "German")
	assert.Equal(t, KindLegacy, got.Kind)
	assert.Equal(t, "", got.Deck())

	got = Select(nil, "anything")
	p, tg, _ = got.Fields()
	assert.Equal(t, "Front", p)
	assert.Equal(t, "Back", tg)
}

func TestResolve(t *testing.T) {
	m := ForDeck(DeckMapping{Deck: "x", Prompt: "word", Target: "2", Audio: "Audio"})
	cols, err := m.Resolve([]string{"Word", "Sentence", "Audio"})
	require.NoError(t, err)
	assert.Equal(t, Columns{Prompt: 0, Target: 1, Audio: 2}, cols)

	cols, err = Legacy(LegacyMapping{Prompt: "Front", Target: "Back"}).Resolve([]string{"Front", "Back"})
	require.NoError(t, err)
	assert.Equal(t, -1, cols.Audio)

	_, err = Legacy(LegacyMapping{Prompt: "0", Target: "Back"}).Resolve([]string{"Front", "Back"})
	assert.Error(t, err)
	_, err = Legacy(LegacyMapping{Prompt: "", Target: "Back"}).Resolve([]string{"Front", "Back"})
	assert.Error(t, err)
	_, err = Legacy(LegacyMapping{Prompt: "Front", Target: "Back", Audio: "Sound"}).Resolve([]string{"Front", "Back"})
	assert.ErrorContains(t, err, "audio field")
}
