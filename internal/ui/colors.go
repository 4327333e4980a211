package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/pst/internal/errors"
)

// Theme is the terminal background the colours are picked for.
type Theme int

const (
	ThemeDark Theme = iota
	ThemeLight
)

func (t Theme) String() string {
	if t == ThemeLight {
		return "Light"
	}
	return "Dark"
}

// ColorDefault leaves the terminal's own foreground colour in place.
const ColorDefault = "Default"

// Named colours map to the 16-colour ANSI palette so they follow the user's
// terminal scheme.
var colorCodes = map[string]lipgloss.Color{
	"Red":     "1",
	"Green":   "2",
	"Yellow":  "3",
	"Blue":    "4",
	"Magenta": "5",
	"Cyan":    "6",
	"White":   "7",

	"BrightRed":     "9",
	"BrightGreen":   "10",
	"BrightYellow":  "11",
	"BrightBlue":    "12",
	"BrightMagenta": "13",
	"BrightCyan":    "14",
	"BrightWhite":   "15",
}

// ColorNames lists every accepted colour name, Default included.
func ColorNames() []string {
	names := make([]string, 0, len(colorCodes)+1)
	for n := range colorCodes {
		names = append(names, n)
	}
	sort.Strings(names)
	return append(names, ColorDefault)
}

// ParseColor resolves a config colour for theme. style is either
// "DarkName|LightName" or one name used for both. Names are matched
// case-insensitively.
func ParseColor(style string, theme Theme) (lipgloss.TerminalColor, error) {
	dark, light, found := strings.Cut(style, "|")
	if !found {
		light = dark
	}
	darkColor, err := lookupColor(dark)
	if err != nil {
		return nil, err
	}
	lightColor, err := lookupColor(light)
	if err != nil {
		return nil, err
	}
	if theme == ThemeLight {
		return lightColor, nil
	}
	return darkColor, nil
}

func lookupColor(name string) (lipgloss.TerminalColor, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, ColorDefault) {
		return lipgloss.NoColor{}, nil
	}
	for n, c := range colorCodes {
		if strings.EqualFold(n, name) {
			return c, nil
		}
	}
	return nil, errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown colour %q", name),
		"Valid colours: "+strings.Join(ColorNames(), ", "))
}
