package tolerance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func req(input, previous rune, expected string) Request {
	return Request{Input: input, Previous: previous, Expected: []rune(expected)}
}

func TestApplyStrict(t *testing.T) {
	cfg := Strict()

	out := Apply(req('a', 0, "abc"), cfg)
	assert.True(t, out.Accept)
	assert.Equal(t, "a", out.Text)

	out = Apply(req('A', 0, "abc"), cfg)
	assert.False(t, out.Accept)
	assert.Empty(t, out.Text)

	out = Apply(req('a', 0, ""), cfg)
	assert.False(t, out.Accept)
}

func TestApplyCaseInsensitive(t *testing.T) {
	cfg := Strict()
	cfg.CaseSensitive = false

	out := Apply(req('A', 0, "abc"), cfg)
	require.True(t, out.Accept)
	assert.Equal(t, "a", out.Text, "accepted text follows the target")
	assert.Equal(t, "case-insensitive match", out.Note)

	out = Apply(req('b', 0, "abc"), cfg)
	assert.False(t, out.Accept)
}

func TestApplyPunctuationTolerance(t *testing.T) {
	cfg := Strict()
	cfg.HandlePunctuation = true
	cfg.IgnorePunctuationErrors = true

	out := Apply(req(';', 0, ", x"), cfg)
	require.True(t, out.Accept)
	assert.Equal(t, ",", out.Text)

	out = Apply(req('x', 0, ", x"), cfg)
	assert.False(t, out.Accept, "letters are not punctuation")

	cfg.HandlePunctuation = false
	out = Apply(req(';', 0, ", x"), cfg)
	assert.False(t, out.Accept, "both flags are required")
}

func TestApplyAutoPunctuation(t *testing.T) {
	cfg := Strict()
	cfg.HandlePunctuation = true
	cfg.AutoPunctuation = true

	out := Apply(req(' ', 'i', ", there"), cfg)
	require.True(t, out.Accept)
	assert.Equal(t, ", ", out.Text)
	assert.Equal(t, "auto-added punctuation: ,", out.Note)

	out = Apply(req('t', 'i', ", there"), cfg)
	assert.False(t, out.Accept, "space is not skipped without auto-correct-spaces")

	out = Apply(req('x', 'i', "(x"), cfg)
	assert.False(t, out.Accept, "opening marks are never auto-inserted")
}

func TestApplyAutoPunctuationWithSpaces(t *testing.T) {
	cfg := DefaultConfig()

	out := Apply(req('t', 'i', ", there"), cfg)
	require.True(t, out.Accept)
	assert.Equal(t, ", t", out.Text)

	out = Apply(req('x', 'i', ".\" x"), cfg)
	require.True(t, out.Accept)
	assert.Equal(t, ".\" x", out.Text)
}

func TestApplyAutoCorrectSpaces(t *testing.T) {
	cfg := DefaultConfig()

	out := Apply(req('.', 'i', ". Next"), cfg)
	require.True(t, out.Accept)
	assert.Equal(t, ". ", out.Text)
	assert.Equal(t, "auto-added space after punctuation", out.Note)

	out = Apply(req('-', 'a', "- b"), cfg)
	require.True(t, out.Accept)
	assert.Equal(t, "-", out.Text, "dash takes no automatic space")
}

func TestApplyIgnoreExtraSpaces(t *testing.T) {
	cfg := Strict()
	cfg.HandleWhitespace = true
	cfg.IgnoreExtraSpaces = true

	out := Apply(req(' ', ' ', "b"), cfg)
	require.True(t, out.Accept)
	assert.Empty(t, out.Text, "duplicate space is absorbed")

	out = Apply(req('b', ' ', "  b"), cfg)
	require.True(t, out.Accept)
	assert.Equal(t, "  b", out.Text)

	out = Apply(req(' ', 'a', "b"), cfg)
	assert.False(t, out.Accept, "a first space is still an error")
}

func TestClassify(t *testing.T) {
	info := Classify('(')
	assert.True(t, info.IsPunctuation)
	assert.True(t, info.IsPairedOpen)
	assert.False(t, info.IsPairedClose)

	info = Classify(')')
	assert.True(t, info.IsPairedClose)
	assert.True(t, info.RequiresSpaceAfter)

	info = Classify('7')
	assert.True(t, info.IsDigit)
	assert.False(t, info.IsPunctuation)

	assert.True(t, Classify(' ').IsWhitespace)
	assert.True(t, Classify('é').IsLetter)
}

func TestValidateSequence(t *testing.T) {
	cfg := Strict()
	require.NoError(t, ValidateSequence("abc", "abcd", cfg))
	assert.Error(t, ValidateSequence("abx", "abc", cfg))
	assert.Error(t, ValidateSequence("abcd", "abc", cfg))

	cfg.HandlePunctuation = true
	cfg.IgnorePunctuationErrors = true
	assert.NoError(t, ValidateSequence("hi there", "hi, there", cfg))
	assert.NoError(t, ValidateSequence("hi; there", "hi, there", cfg))
	assert.Error(t, ValidateSequence("h, there", "hi there", cfg))

	cfg.CaseSensitive = false
	assert.NoError(t, ValidateSequence("HI", "hi", cfg))
}

func TestCountPunctuation(t *testing.T) {
	s := CountPunctuation(`Hi, "you" (there)! [a] {b}?`)
	assert.Equal(t, 1, s.Commas)
	assert.Equal(t, 2, s.Quotes)
	assert.Equal(t, 2, s.Parentheses)
	assert.Equal(t, 1, s.Exclamations)
	assert.Equal(t, 2, s.Brackets)
	assert.Equal(t, 2, s.Braces)
	assert.Equal(t, 1, s.Questions)
	assert.Equal(t, 11, s.Total)
}
