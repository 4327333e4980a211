// Package term answers the few terminal questions the table needs: is the
// output a terminal, how large is it, and how to cut a styled line to fit.
package term

import (
	"os"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// Fallback size used when a terminal cannot be measured.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// Info describes an output stream.
type Info struct {
	TTY bool
	// Width and Height are zero when the stream is not a terminal or could
	// not be measured. A zero width means lines are never cut.
	Width  int
	Height int
}

// Probe inspects f.
func Probe(f *os.File) Info {
	if f == nil {
		return Info{}
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return Info{}
	}
	info := Info{TTY: true}
	if w, h, err := term.GetSize(fd); err == nil {
		info.Width, info.Height = w, h
	}
	return info
}

// Size returns the terminal size, or the defaults when it is unknown.
func (i Info) Size() (width, height int) {
	width, height = i.Width, i.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return width, height
}

// Truncate cuts s to at most width display cells. Escape sequences before
// the cut are kept so styling stays balanced; a width of zero or less
// leaves s untouched.
func Truncate(s string, width int) string {
	if width <= 0 || ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "")
}

// Width is the display width of s, ignoring escape sequences.
func Width(s string) int {
	return ansi.StringWidth(s)
}
