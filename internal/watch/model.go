// Package watch redraws the process table at a fixed interval until the
// user quits.
//
// The loop is a Bubble Tea program. Each frame builds a fresh view.View in
// watch mode, so the table is clipped to the terminal height and never
// paged:
//
//  1. collectCmd samples processes and renders a frame off the UI goroutine
//  2. frameMsg swaps the frame in and schedules a wakeMsg after the interval
//  3. wakeMsg starts the next collectCmd
//
// Keys change the sort column (n, p) and order (a, d) of the next frame;
// q or Ctrl+C clears the screen and quits.
package watch

import (
	"context"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/pst/internal/column"
	"github.com/rileyhilliard/pst/internal/config"
	"github.com/rileyhilliard/pst/internal/errors"
	"github.com/rileyhilliard/pst/internal/logger"
	"github.com/rileyhilliard/pst/internal/proc"
	"github.com/rileyhilliard/pst/internal/ui"
	"github.com/rileyhilliard/pst/internal/view"
)

// DefaultInterval is the redraw interval of -w/--watch.
const DefaultInterval = time.Second

// Options configures a watch loop.
type Options struct {
	Config *config.Config
	Opt    *config.Opt
	Source proc.Source

	// View is the base for every frame's view options; Mode and Height
	// are filled in per frame.
	View view.Options

	// Interval is the pause between frames. Zero uses Opt.WatchInterval,
	// then DefaultInterval.
	Interval time.Duration

	Color bool
	Theme ui.Theme

	// Width and Height are the terminal size until the first resize event.
	Width  int
	Height int
}

// Model is the Bubble Tea model of the watch loop.
type Model struct {
	opts   Options
	log    logger.Logger
	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int

	sortIdx  int
	order    column.Order
	idxSet   bool
	orderSet bool
	sortable []bool

	lines    []string
	ready    bool
	quitting bool
	err      error

	spinner ui.Spinner
	help    help.Model
}

// wakeMsg starts the next frame.
type wakeMsg time.Time

// frameMsg carries a rendered frame.
type frameMsg struct {
	lines    []string
	sortable []bool
	sortIdx  int
	order    column.Order
	err      error
}

// request is the input of one frame.
type request struct {
	width    int
	height   int
	override bool
	sortIdx  int
	order    column.Order
}

// New creates a watch model.
func New(opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = opts.Opt.WatchInterval
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		opts:    opts,
		log:     logger.Named("watch"),
		ctx:     ctx,
		cancel:  cancel,
		width:   opts.Width,
		height:  opts.Height,
		spinner: ui.NewSpinner("Sampling processes", nil),
		help:    help.New(),
	}
}

// Init starts the first frame and the spinner shown until it arrives.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.collectCmd(), m.spinner.Init())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case spinner.TickMsg:
		if m.ready {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case wakeMsg:
		if m.quitting {
			return m, nil
		}
		return m, m.collectCmd()

	case frameMsg:
		if m.quitting {
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}
		m.ready = true
		m.lines = msg.lines
		m.sortable = msg.sortable
		if !m.idxSet {
			m.sortIdx = msg.sortIdx
		}
		if !m.orderSet {
			m.order = msg.order
		}
		return m, m.wakeCmd()
	}

	return m, nil
}

// View renders the latest frame followed by the key help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.spinner.View() + "\n"
	}
	return strings.Join(m.lines, "\n") + "\n\n" + m.help.View(keys)
}

// Err is the error that ended the loop, if any.
func (m Model) Err() error { return m.err }

func (m Model) wakeCmd() tea.Cmd {
	return tea.Tick(m.opts.Interval, func(t time.Time) tea.Msg {
		return wakeMsg(t)
	})
}

// collectCmd renders a frame with the current size and sort state.
func (m Model) collectCmd() tea.Cmd {
	ctx, opts, log := m.ctx, m.opts, m.log
	req := request{
		width:    m.width,
		height:   m.height,
		override: m.idxSet || m.orderSet,
		sortIdx:  m.sortIdx,
		order:    m.order,
	}
	return func() tea.Msg {
		msg := buildFrame(ctx, opts, req)
		if msg.err == nil {
			log.Debug("frame: %d lines at %dx%d", len(msg.lines), req.width, req.height)
		}
		return msg
	}
}

// buildFrame runs one tick of the table: collect, filter, layout and
// render.
func buildFrame(ctx context.Context, o Options, req request) frameMsg {
	vo := o.View
	vo.Mode = view.Watch
	vo.Height = req.height

	v, err := view.New(o.Config, o.Opt, vo)
	if err != nil {
		return frameMsg{err: err}
	}
	if req.override {
		v.SetSort(req.sortIdx, req.order)
	}
	if err := v.Load(ctx, o.Source); err != nil {
		return frameMsg{err: err}
	}
	v.Filter()
	v.Layout()

	st, err := ui.NewStyler(io.Discard, o.Config.Style, v.Styles(), ui.Options{
		Color: o.Color,
		Theme: o.Theme.String(),
	})
	if err != nil {
		return frameMsg{err: err}
	}

	width := 0
	if o.Config.Display.CutToTerminal {
		width = req.width
	}

	cols := v.Columns()
	sortable := make([]bool, len(cols))
	for i, c := range cols {
		sortable[i] = c.Sortable() && !v.Tree()
	}
	idx, order := v.Sort()
	return frameMsg{
		lines:    v.Lines(st, width),
		sortable: sortable,
		sortIdx:  idx,
		order:    order,
	}
}

// Run starts the watch loop on in/out and blocks until the user quits.
// With PST_DEBUG set, log output goes to logger.DebugFile() while the loop
// owns the terminal.
func Run(opts Options, in io.Reader, out io.Writer) error {
	if logger.DebugEnabled() {
		f, err := tea.LogToFile(logger.DebugFile(), "pst")
		if err == nil {
			defer func() {
				log.SetOutput(os.Stderr)
				f.Close()
			}()
		}
	}

	p := tea.NewProgram(New(opts), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrTerm,
			"Watch mode failed",
			"Run without -w to print a single listing.")
	}
	if fm, ok := final.(Model); ok {
		fm.cancel()
		return fm.Err()
	}
	return nil
}
