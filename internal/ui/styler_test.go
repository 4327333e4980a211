package ui

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/rileyhilliard/pst/internal/config"
	"github.com/rileyhilliard/pst/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStyler(t *testing.T, columns []string, opts Options) *Styler {
	t.Helper()
	s, err := NewStyler(&bytes.Buffer{}, config.DefaultConfig().Style, columns, opts)
	require.NoError(t, err)
	return s
}

func foreground(t *testing.T, s *Styler, col int, text string) lipgloss.TerminalColor {
	t.Helper()
	st, ok := s.styleFor(col, text)
	require.True(t, ok, "no style for %q", text)
	return st.GetForeground()
}

func TestStylerDisabledIsPlain(t *testing.T) {
	s := newTestStyler(t, []string{"BrightRed|Red", config.StyleByPercentage}, Options{Color: false, Theme: config.ThemeAuto})

	assert.False(t, s.Enabled())
	assert.Equal(t, ThemeDark, s.Theme())
	assert.Equal(t, "PID", s.Header("PID"))
	assert.Equal(t, "[%]", s.Unit("[%]"))
	assert.Equal(t, "├─", s.Tree("├─", true))
	assert.Equal(t, " 42.0", s.Cell(1, " 42.0", true))
}

func TestStylerEnabledKeepsText(t *testing.T) {
	s := newTestStyler(t, []string{"BrightRed|Red"}, Options{Color: true, Theme: config.ThemeDark})

	out := s.Cell(0, "init", false)
	assert.NotEqual(t, "init", out)
	assert.Equal(t, "init", ansi.Strip(out))
	assert.Equal(t, 4, ansi.StringWidth(out))

	faint := s.Cell(0, "init", true)
	assert.NotEqual(t, out, faint)
	assert.Equal(t, "init", ansi.Strip(faint))

	assert.Equal(t, "PID", ansi.Strip(s.Header("PID")))
}

func TestStylerTheme(t *testing.T) {
	dark := newTestStyler(t, []string{"BrightGreen|Green"}, Options{Color: true, Theme: "dark"})
	light := newTestStyler(t, []string{"BrightGreen|Green"}, Options{Color: true, Theme: config.ThemeLight})

	assert.Equal(t, ThemeDark, dark.Theme())
	assert.Equal(t, ThemeLight, light.Theme())
	assert.Equal(t, lipgloss.Color("10"), foreground(t, dark, 0, "x"))
	assert.Equal(t, lipgloss.Color("2"), foreground(t, light, 0, "x"))
}

func TestDetectTheme(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, ThemeLight, DetectTheme(&buf, Options{Color: true, Theme: config.ThemeLight}))
	assert.Equal(t, ThemeDark, DetectTheme(&buf, Options{Color: true, Theme: config.ThemeDark}))
	assert.Equal(t, ThemeDark, DetectTheme(&buf, Options{Theme: config.ThemeAuto}))
}

func TestStylerByPercentage(t *testing.T) {
	s := newTestStyler(t, []string{config.StyleByPercentage}, Options{Color: true, Theme: config.ThemeDark})

	tests := []struct {
		cell string
		want lipgloss.Color
	}{
		{"0.0", "12"},
		{"  24.9", "12"},
		{"25.0", "10"},
		{"50.0 ", "11"},
		{"99.9", "9"},
		{"100.0", "9"},
		{"350.0", "9"},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			assert.Equal(t, tt.want, foreground(t, s, 0, tt.cell))
		})
	}

	_, ok := s.styleFor(0, "")
	assert.False(t, ok)
	_, ok = s.styleFor(0, "n/a")
	assert.False(t, ok)
}

func TestStylerByUnit(t *testing.T) {
	s := newTestStyler(t, []string{config.StyleByUnit}, Options{Color: true, Theme: config.ThemeLight})

	assert.Equal(t, lipgloss.Color("4"), foreground(t, s, 0, "4K   "))
	assert.Equal(t, lipgloss.Color("2"), foreground(t, s, 0, "  12M"))
	assert.Equal(t, lipgloss.Color("3"), foreground(t, s, 0, "3G"))
	assert.Equal(t, lipgloss.Color("1"), foreground(t, s, 0, "5T"))
	assert.Equal(t, lipgloss.Color("4"), foreground(t, s, 0, "512"))

	_, ok := s.styleFor(0, "   ")
	assert.False(t, ok)
}

func TestStylerByState(t *testing.T) {
	s := newTestStyler(t, []string{config.StyleByState}, Options{Color: true, Theme: config.ThemeDark})

	assert.Equal(t, lipgloss.Color("10"), foreground(t, s, 0, "R"))
	assert.Equal(t, lipgloss.Color("12"), foreground(t, s, 0, "S "))
	assert.Equal(t, lipgloss.Color("13"), foreground(t, s, 0, "Z"))
	assert.Equal(t, lipgloss.Color("14"), foreground(t, s, 0, "t"))

	_, ok := s.styleFor(0, "Q")
	assert.False(t, ok)
	_, ok = s.styleFor(3, "R")
	assert.False(t, ok, "out of range column")
}

func TestStylerUnknownColumnColour(t *testing.T) {
	_, err := NewStyler(&bytes.Buffer{}, config.DefaultConfig().Style, []string{"Red", "Teal"}, Options{Color: true, Theme: config.ThemeDark})
	require.Error(t, err)

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.ErrConfig, e.Code)
	assert.Contains(t, e.Message, "columns[1].style")
}

func TestStylerUnknownThemeColour(t *testing.T) {
	style := config.DefaultConfig().Style
	style.ByState.ColorZ = "Pink|Magenta"

	_, err := NewStyler(&bytes.Buffer{}, style, nil, Options{Color: false})
	require.Error(t, err, "colours are validated even when colour is off")
	assert.Contains(t, err.Error(), "style.by_state")
}

func TestPercentBand(t *testing.T) {
	assert.Equal(t, 0, percentBand(-1))
	assert.Equal(t, 1, percentBand(25))
	assert.Equal(t, 2, percentBand(74.99))
	assert.Equal(t, 3, percentBand(75))
	assert.Equal(t, 4, percentBand(100))
}
