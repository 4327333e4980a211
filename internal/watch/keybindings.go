package watch

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/pst/internal/column"
)

type keyMap struct {
	Next       key.Binding
	Prev       key.Binding
	Ascending  key.Binding
	Descending key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Next: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "next column"),
	),
	Prev: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "previous column"),
	),
	Ascending: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "ascending"),
	),
	Descending: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "descending"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Ascending, k.Descending, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Ascending, k.Descending},
		{k.Quit},
	}
}

// HandleKeyMsg applies a key to the pending sort state. Sort changes take
// effect on the next frame: several n/p presses accumulate, and of several
// a/d presses the last one wins. It returns false for unbound keys.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		m.cancel()
		return true, tea.Sequence(tea.ClearScreen, tea.Quit)

	case key.Matches(msg, keys.Next):
		m.step(1)

	case key.Matches(msg, keys.Prev):
		m.step(-1)

	case key.Matches(msg, keys.Ascending):
		m.order = column.Ascending
		m.orderSet = true

	case key.Matches(msg, keys.Descending):
		m.order = column.Descending
		m.orderSet = true

	default:
		return false, nil
	}
	return true, nil
}

// step moves the sort column by dir, wrapping around and skipping columns
// that cannot be sorted.
func (m *Model) step(dir int) {
	n := len(m.sortable)
	idx := m.sortIdx
	for range n {
		idx = ((idx+dir)%n + n) % n
		if m.sortable[idx] {
			m.sortIdx = idx
			m.idxSet = true
			return
		}
	}
}
