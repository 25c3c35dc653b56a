package styles

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	assert.Equal(t, []string{"catppuccin", "gruvbox", "tokyo-night"}, names)

	for _, name := range names {
		p, ok := GetPalette(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, p.Primary, name)
	}
}

func TestForTheme_FallsBack(t *testing.T) {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	s := ForTheme(r, "no-such-theme")
	assert.Equal(t, themes[DefaultTheme], s.Palette)

	s = ForTheme(r, "gruvbox")
	assert.Equal(t, themes["gruvbox"], s.Palette)
}

func TestStyles_PlainWhenNotTerminal(t *testing.T) {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	s := New(r, themes[DefaultTheme])
	assert.Equal(t, "Today", s.Header.Render("Today"))
}
