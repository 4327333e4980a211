package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// SpinnerFrames defines the animation frames (◐ ◓ ◑ ◒).
var SpinnerFrames = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10,
}

// Spinner is a Bubble Tea component for embedding a busy indicator in a
// larger model.
type Spinner struct {
	spinner spinner.Model
	Label   string
}

// NewSpinner creates a spinner drawn in the unit-row colour of st. st may
// be nil for an uncoloured spinner.
func NewSpinner(label string, st *Styler) Spinner {
	sp := spinner.New()
	sp.Spinner = SpinnerFrames
	if st != nil && st.enabled {
		sp.Style = st.unit
	}
	return Spinner{spinner: sp, Label: label}
}

// Init returns the first animation tick.
func (s Spinner) Init() tea.Cmd {
	return s.spinner.Tick
}

// Update advances the animation on spinner ticks and ignores everything
// else.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(tick)
		return s, cmd
	}
	return s, nil
}

func (s Spinner) View() string {
	return s.spinner.View() + " " + s.Label + "..."
}
