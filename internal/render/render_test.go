package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/cardtype/internal/engine"
	"github.com/verte-zerg/cardtype/internal/tolerance"
)

func typed(t *testing.T, target, input string) *engine.Engine {
	t.Helper()
	e := engine.New(target, tolerance.Strict())
	for _, r := range input {
		e.ProcessInput(engine.Key(r))
	}
	return e
}

func TestHTMLClassic(t *testing.T) {
	e := typed(t, "a<b c", "a")
	got := HTML(e.Slots(), Classic())
	want := `<span style="color: #4CAF50; font-weight: bold;">a</span>` +
		`<span style="background-color: #FFEB3B; text-decoration: underline;">&lt;</span>` +
		`<span style="color: #999999;">b</span>` +
		`&nbsp;` +
		`<span style="color: #999999;">c</span>`
	assert.Equal(t, want, got)
}

func TestHTMLWrapsCursorSpace(t *testing.T) {
	e := typed(t, "a b", "a")
	got := HTML(e.Slots(), Classic())
	assert.Contains(t, got, `<span style="background-color: #FFEB3B; text-decoration: underline;">&nbsp;</span>`)
}

func TestHTMLEscapes(t *testing.T) {
	e := typed(t, `&>"`, `&>"`)
	got := HTML(e.Slots(), Classic())
	assert.Contains(t, got, ">&amp;<")
	assert.Contains(t, got, ">&gt;<")
	assert.Contains(t, got, ">&quot;<")
}

func TestPlainMarkers(t *testing.T) {
	e := typed(t, "ab c", "ax")
	assert.Equal(t, "ab c\n.x", Plain(e.Slots()))

	e = typed(t, "ab", "ab")
	assert.Equal(t, "ab\n..", Plain(e.Slots()))
}

func TestRunesStyles(t *testing.T) {
	theme := ThemeFor(Progressive)
	e := typed(t, "one two", "o")
	runes := Runes(e.Slots(), theme)
	require.Len(t, runes, 7)

	assert.Equal(t, theme.Correct.Lipgloss().Render("o"), runes[0].S)
	assert.Equal(t, theme.Current.Lipgloss().Render("n"), runes[1].S)
	assert.Equal(t, theme.Word.Lipgloss().Render("e"), runes[2].S)
	assert.Equal(t, theme.Undefined.Lipgloss().Render("t"), runes[4].S)
	assert.True(t, runes[3].IsSpace)
	assert.Equal(t, 1, runes[0].Width)
}

func TestRunesWrongSpace(t *testing.T) {
	theme := ThemeFor(Accompanying)
	e := typed(t, "a b", "ax")
	runes := Runes(e.Slots(), theme)
	require.Len(t, runes, 3)
	assert.Equal(t, theme.Error.Lipgloss().Render("•"), runes[1].S)
	assert.True(t, runes[1].IsSpace)
}

func TestRunesWideChars(t *testing.T) {
	e := typed(t, "日本", "")
	runes := Runes(e.Slots(), ThemeFor(Accompanying))
	assert.Equal(t, 2, runes[0].Width)
	assert.Equal(t, Join(runes), ANSI(e.Slots(), ThemeFor(Accompanying)))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Accompanying")
	require.NoError(t, err)
	assert.Equal(t, Accompanying, m)
	_, err = ParseMode("karaoke")
	assert.Error(t, err)
}

func TestStyleCSS(t *testing.T) {
	s := Style{Foreground: "#FF9800", Background: "#FFE0B2", Bold: true, Underline: true}
	assert.Equal(t, "color: #FF9800; background-color: #FFE0B2; font-weight: bold; text-decoration: underline;", s.CSS())
	assert.Equal(t, "", Style{}.CSS())
}
