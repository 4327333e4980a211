package view

import (
	"strings"

	"github.com/rileyhilliard/pst/internal/column"
	"github.com/rileyhilliard/pst/internal/config"
	"github.com/rileyhilliard/pst/internal/term"
)

// watchReserve is the number of terminal rows a watch frame keeps free for
// the header, unit row and status lines.
const watchReserve = 5

// Layout orders the shown PIDs, clips watch frames to the terminal and
// sizes every column to its visible cells. Call it after Filter.
func (v *View) Layout() {
	shown := func(pid int32) bool { return v.matched[pid] || v.auxiliary[pid] }

	var order []int32
	switch {
	case len(v.entries) == 0:
		order = nil
	case v.tree != nil:
		keep := make([]int32, 0, len(v.matched)+len(v.auxiliary))
		for _, pid := range v.pids {
			if shown(pid) {
				keep = append(keep, pid)
			}
		}
		v.tree.ApplyVisible(keep)
		order = v.tree.SortedPids(column.Ascending)
	default:
		for _, pid := range v.entries[v.sortIdx].col.SortedPids(v.order) {
			if shown(pid) {
				order = append(order, pid)
			}
		}
	}

	if v.opts.Mode == Watch && v.opts.Height > 0 {
		limit := max(v.opts.Height-watchReserve, 0)
		if len(order) > limit {
			order = order[:limit]
		}
	}
	v.visible = order

	for i, e := range v.entries {
		e.col.ApplyVisible(order)
		e.col.ResetWidth(v.sortMarker(i), e.conf.MinWidth)
		for _, pid := range order {
			e.col.UpdateWidth(pid, e.conf.MaxWidth)
		}
	}
}

// sortMarker returns the order to mark in column i's header, or nil.
func (v *View) sortMarker(i int) *column.Order {
	if i != v.sortIdx || v.tree != nil {
		return nil
	}
	o := v.order
	return &o
}

// TableWidth is the width of a full row: every column plus one space
// between neighbours.
func (v *View) TableWidth() int {
	if len(v.entries) == 0 {
		return 0
	}
	w := len(v.entries) - 1
	for _, e := range v.entries {
		w += e.col.Width()
	}
	return w
}

// Output describes the stream the table is written to.
type Output struct {
	// Stdout is the probed standard output.
	Stdout term.Info
	// PipeWidth is the width to cut piped output to when [display]
	// cut_to_pipe is set. Zero leaves piped rows whole.
	PipeWidth int
	// GOOS is the target OS; the pager is never used on windows.
	GOOS string
}

// Decision is the outcome of the pager, colour and truncation rules.
type Decision struct {
	Pager bool
	Color bool
	// Width cuts every row; zero leaves rows whole.
	Width int
}

// Decide applies the pager, colour and truncation rules for out. Call it
// after Layout.
func (v *View) Decide(out Output) Decision {
	var d Decision
	d.Pager = v.usePager(out)
	d.Color = ColorEnabled(v.opt.ColorMode(v.cfg), out.Stdout.TTY)

	switch {
	case d.Pager:
		if v.cfg.Display.CutToPager {
			d.Width = out.Stdout.Width
		}
	case out.Stdout.TTY:
		if v.cfg.Display.CutToTerminal {
			d.Width = out.Stdout.Width
		}
	default:
		if v.cfg.Display.CutToPipe {
			d.Width = out.PipeWidth
		}
	}
	return d
}

func (v *View) usePager(out Output) bool {
	if out.GOOS == "windows" {
		return false
	}
	mode := v.opt.PagerMode(v.cfg)
	switch {
	case strings.EqualFold(mode, config.ModeAlways):
		return true
	case strings.EqualFold(mode, config.ModeDisable):
		return false
	}
	if !out.Stdout.TTY {
		return false
	}
	if out.Stdout.Height > 0 && len(v.visible)+3 > out.Stdout.Height {
		return true
	}
	return v.cfg.Pager.DetectWidth && out.Stdout.Width > 0 && v.TableWidth() > out.Stdout.Width
}

// ColorEnabled resolves Auto/Always/Disable. Auto colours only a
// terminal; the pager is only started on a terminal in Auto mode.
func ColorEnabled(mode string, tty bool) bool {
	switch {
	case strings.EqualFold(mode, config.ModeAlways):
		return true
	case strings.EqualFold(mode, config.ModeDisable):
		return false
	}
	return tty
}
