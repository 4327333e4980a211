package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/pst/internal/config"
	"github.com/rileyhilliard/pst/internal/errors"
)

// Options chooses how a Styler renders.
type Options struct {
	// Color enables escape sequences. When false every method returns its
	// input unchanged.
	Color bool
	// Theme is config.ThemeAuto, ThemeDark or ThemeLight.
	Theme string
}

type cellMode int

const (
	modeFixed cellMode = iota
	modePercentage
	modeState
	modeUnit
)

type cellStyle struct {
	mode  cellMode
	style lipgloss.Style
}

// Styler colours table cells. One Styler serves one output stream.
type Styler struct {
	renderer *lipgloss.Renderer
	enabled  bool
	theme    Theme

	header lipgloss.Style
	unit   lipgloss.Style
	tree   lipgloss.Style

	columns []cellStyle
	percent [5]lipgloss.Style
	states  map[byte]lipgloss.Style
	units   map[byte]lipgloss.Style
	bare    lipgloss.Style
}

// NewStyler resolves every colour in style and in the per-column styles
// for the active theme. An unknown colour name is a CONFIG error.
func NewStyler(w io.Writer, style config.StyleConfig, columns []string, opts Options) (*Styler, error) {
	r := lipgloss.NewRenderer(w)
	if opts.Color {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	s := &Styler{
		renderer: r,
		enabled:  opts.Color,
		theme:    resolveTheme(opts, r),
		states:   make(map[byte]lipgloss.Style),
		units:    make(map[byte]lipgloss.Style),
	}

	var err error
	fg := func(field, value string) lipgloss.Style {
		if err != nil {
			return r.NewStyle()
		}
		c, e := ParseColor(value, s.theme)
		if e != nil {
			err = styleError(field, e)
			return r.NewStyle()
		}
		return r.NewStyle().Foreground(c)
	}

	s.header = fg("style.header", style.Header).Bold(true)
	s.unit = fg("style.unit", style.Unit)
	s.tree = fg("style.tree", style.Tree)

	p := style.ByPercentage
	for i, value := range []string{p.Color000, p.Color025, p.Color050, p.Color075, p.Color100} {
		s.percent[i] = fg("style.by_percentage", value)
	}

	st := style.ByState
	for letter, value := range map[byte]string{
		'D': st.ColorD, 'R': st.ColorR, 'S': st.ColorS,
		'T': st.ColorT, 'Z': st.ColorZ, 'X': st.ColorX,
		'K': st.ColorK, 'W': st.ColorW, 'P': st.ColorP,
	} {
		s.states[letter] = fg("style.by_state", value)
	}

	u := style.ByUnit
	for suffix, value := range map[byte]string{
		'K': u.ColorK, 'M': u.ColorM, 'G': u.ColorG, 'T': u.ColorT, 'P': u.ColorP,
	} {
		s.units[suffix] = fg("style.by_unit", value)
	}
	s.bare = fg("style.by_unit", u.ColorX)

	s.columns = make([]cellStyle, len(columns))
	for i, style := range columns {
		switch {
		case strings.EqualFold(style, config.StyleByPercentage):
			s.columns[i] = cellStyle{mode: modePercentage}
		case strings.EqualFold(style, config.StyleByState):
			s.columns[i] = cellStyle{mode: modeState}
		case strings.EqualFold(style, config.StyleByUnit):
			s.columns[i] = cellStyle{mode: modeUnit}
		default:
			s.columns[i] = cellStyle{style: fg(fmt.Sprintf("columns[%d].style", i), style)}
		}
	}

	if err != nil {
		return nil, err
	}
	return s, nil
}

// DetectTheme resolves opts.Theme once for w, querying the terminal
// background when it is Auto. Long-running programs call it before taking
// over the terminal and pass the result to every NewStyler.
func DetectTheme(w io.Writer, opts Options) Theme {
	return resolveTheme(opts, lipgloss.NewRenderer(w))
}

func resolveTheme(opts Options, r *lipgloss.Renderer) Theme {
	switch {
	case strings.EqualFold(opts.Theme, config.ThemeLight):
		return ThemeLight
	case strings.EqualFold(opts.Theme, config.ThemeDark):
		return ThemeDark
	case !opts.Color:
		return ThemeDark
	case r.HasDarkBackground():
		return ThemeDark
	}
	return ThemeLight
}

func styleError(field string, err error) error {
	if e, ok := err.(*errors.Error); ok {
		return errors.New(errors.ErrConfig, fmt.Sprintf("Invalid %s: %s", field, e.Message), e.Suggestion)
	}
	return errors.WrapWithCode(err, errors.ErrConfig, "Invalid "+field, "")
}

// Enabled reports whether output carries escape sequences.
func (s *Styler) Enabled() bool { return s.enabled }

// Theme is the theme the colours were resolved for.
func (s *Styler) Theme() Theme { return s.theme }

// Header styles a header cell.
func (s *Styler) Header(text string) string { return s.render(s.header, text, false) }

// Unit styles a unit-row cell.
func (s *Styler) Unit(text string) string { return s.render(s.unit, text, false) }

// Tree styles a tree connector cell. faint dims auxiliary rows.
func (s *Styler) Tree(text string, faint bool) string { return s.render(s.tree, text, faint) }

// Cell styles the content cell of column col. The colour of the value-driven
// modes is read off the cell text itself.
func (s *Styler) Cell(col int, text string, faint bool) string {
	style, ok := s.styleFor(col, text)
	if !ok {
		return s.render(s.renderer.NewStyle(), text, faint)
	}
	return s.render(style, text, faint)
}

func (s *Styler) render(style lipgloss.Style, text string, faint bool) string {
	if !s.enabled {
		return text
	}
	if faint {
		style = style.Faint(true)
	}
	return style.Render(text)
}

func (s *Styler) styleFor(col int, text string) (lipgloss.Style, bool) {
	if col < 0 || col >= len(s.columns) {
		return lipgloss.Style{}, false
	}
	cs := s.columns[col]
	v := strings.TrimSpace(text)
	switch cs.mode {
	case modePercentage:
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return lipgloss.Style{}, false
		}
		return s.percent[percentBand(p)], true
	case modeState:
		if v == "" {
			return lipgloss.Style{}, false
		}
		st, ok := s.states[upper(v[0])]
		return st, ok
	case modeUnit:
		if v == "" {
			return lipgloss.Style{}, false
		}
		if st, ok := s.units[v[len(v)-1]]; ok {
			return st, true
		}
		return s.bare, true
	}
	return cs.style, true
}

// percentBand maps 0-25-50-75-100 to bands 0..4.
func percentBand(p float64) int {
	switch {
	case p < 25:
		return 0
	case p < 50:
		return 1
	case p < 75:
		return 2
	case p < 100:
		return 3
	}
	return 4
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
