// Package view turns a configuration and a set of process snapshots into
// the rendered process table.
//
// A View is built once per tick:
//
//	v, err := view.New(cfg, opt, view.Options{...})
//	err = v.Load(ctx, source)   // collect and ingest
//	v.Filter()                  // keywords, tree context, self
//	v.Layout()                  // sort, clip, widths
//	v.Display(w, styler, width) // or DisplayJSON / DisplayYAML
package view

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rileyhilliard/pst/internal/column"
	"github.com/rileyhilliard/pst/internal/config"
	"github.com/rileyhilliard/pst/internal/docker"
	"github.com/rileyhilliard/pst/internal/errors"
	"github.com/rileyhilliard/pst/internal/logger"
	"github.com/rileyhilliard/pst/internal/proc"
)

// Mode distinguishes a one-shot listing from a watch-mode frame.
type Mode int

const (
	OneShot Mode = iota
	Watch
)

// Options carries the run environment a View cannot derive from the
// configuration.
type Options struct {
	Mode Mode
	// Platform decides which kinds are available.
	Platform proc.Platform
	// Self is the PID of this process, hidden unless [display] show_self.
	Self int32
	// Height is the terminal height used to clip watch-mode frames.
	Height int
	// Docker resolves container names. nil marks the Docker column
	// unavailable.
	Docker *docker.Resolver
	// Users and Groups override the system name databases.
	Users  *proc.NameCache
	Groups *proc.NameCache
	Log    logger.Logger
	// Now stamps the tick. Defaults to time.Now.
	Now func() time.Time
}

// entry is one table column with its configuration.
type entry struct {
	col   column.Column
	conf  config.ColumnConfig
	align column.Align
	// index into cfg.Columns, -1 for columns not from the config list.
	cfgIndex int
}

// View is one tick of the process table.
type View struct {
	cfg  *config.Config
	opt  *config.Opt
	opts Options
	log  logger.Logger

	entries []*entry
	tree    *column.TreeColumn

	sortIdx int
	order   column.Order

	pids      []int32
	matched   map[int32]bool
	auxiliary map[int32]bool
	visible   []int32

	subs []column.Substitution
}

// New builds the column vector for cfg and opt.
//
// Unknown kinds in the config are CONFIG errors; unknown kinds named by
// --insert, --only, --sorta or --sortd are KIND errors.
func New(cfg *config.Config, opt *config.Opt, opts Options) (*View, error) {
	if opts.Log == nil {
		opts.Log = logger.Named("view")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	v := &View{
		cfg:       cfg,
		opt:       opt,
		opts:      opts,
		log:       opts.Log,
		matched:   make(map[int32]bool),
		auxiliary: make(map[int32]bool),
	}

	subs, err := compileSubstitutions(cfg.Cgroup.Substitutions)
	if err != nil {
		return nil, err
	}
	v.subs = subs

	if err := v.buildColumns(); err != nil {
		return nil, err
	}
	if err := v.selectSort(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *View) columnOptions(conf config.ColumnConfig) column.Options {
	var symbols [5]string
	copy(symbols[:], v.cfg.Display.TreeSymbols)
	return column.Options{
		Header: conf.Header,
		Markers: column.Markers{
			Ascending:  v.cfg.Display.Ascending,
			Descending: v.cfg.Display.Descending,
		},
		Separator:   v.cfg.Display.Separator,
		TreeSymbols: symbols,
		Platform:    v.opts.Platform,
		Docker:      v.opts.Docker != nil,
	}
}

func (v *View) buildColumns() error {
	inserts := v.opt.Insert
	treePlaced := false
	var entries []*entry

	add := func(kind column.Kind, conf config.ColumnConfig, cfgIndex int) error {
		col, err := column.New(kind, v.columnOptions(conf))
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Can't build column %s", kind), "")
		}
		e := &entry{col: col, conf: conf, align: column.ParseAlign(conf.Align), cfgIndex: cfgIndex}
		if t, ok := col.(*column.TreeColumn); ok {
			v.tree = t
			e.conf.Style = v.cfg.Style.Tree
		}
		entries = append(entries, e)
		return nil
	}

	for i, conf := range v.cfg.Columns {
		kind, ok := column.ParseKind(conf.Kind)
		if !ok {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("columns[%d]: unknown kind %q", i, conf.Kind),
				"Run 'pst --list' to see the available kinds.")
		}
		switch kind {
		case column.Slot:
			if len(inserts) == 0 {
				continue
			}
			name := inserts[0]
			inserts = inserts[1:]
			k, ok := column.ParseKind(name)
			if !ok || k.Placeholder() {
				return errors.NewUnknownKind("--insert", name)
			}
			kind = k
		case column.TreeSlot, column.Tree:
			if !v.opt.Tree || treePlaced {
				continue
			}
			kind = column.Tree
			treePlaced = true
		}
		if err := add(kind, conf, i); err != nil {
			return err
		}
	}

	if v.opt.Tree && !treePlaced {
		if err := add(column.Tree, config.ColumnConfig{Kind: column.Tree.String(), Align: config.AlignLeft}, -1); err != nil {
			return err
		}
		last := entries[len(entries)-1]
		entries = append([]*entry{last}, entries[:len(entries)-1]...)
	}

	if v.opt.Only != "" {
		var kept []*entry
		matched := false
		for _, e := range entries {
			k := e.col.Kind()
			if k == column.Tree {
				kept = append(kept, e)
				continue
			}
			if k.Match(v.opt.Only) {
				kept = append(kept, e)
				matched = true
			}
		}
		if !matched {
			return errors.NewUnknownKind("--only", v.opt.Only)
		}
		entries = kept
	}

	v.entries = entries[:0:0]
	for _, e := range entries {
		if e.col.Available() {
			v.entries = append(v.entries, e)
			continue
		}
		v.log.Debug("dropping %s: not available on %s", e.col.Kind(), v.opts.Platform)
	}
	if v.tree != nil && !v.hasTree() {
		v.tree = nil
	}
	return nil
}

func (v *View) hasTree() bool {
	for _, e := range v.entries {
		if e.col == column.Column(v.tree) {
			return true
		}
	}
	return false
}

// selectSort picks the sort column: the tree in tree mode, else --sorta /
// --sortd, else the configured [sort] column.
func (v *View) selectSort() error {
	v.order = column.ParseOrder(v.cfg.Sort.Order)
	v.sortIdx = 0

	if v.tree != nil {
		v.sortIdx = v.treeIndex()
		v.order = column.Ascending
		return nil
	}

	pick := func(flag, sub string, order column.Order) error {
		for i, e := range v.entries {
			if e.col.Sortable() && e.col.Kind().Match(sub) {
				v.sortIdx, v.order = i, order
				return nil
			}
		}
		return errors.NewUnknownKind(flag, sub)
	}
	switch {
	case v.opt.SortA != "":
		return pick("--sorta", v.opt.SortA, column.Ascending)
	case v.opt.SortD != "":
		return pick("--sortd", v.opt.SortD, column.Descending)
	}

	for i, e := range v.entries {
		if e.cfgIndex == v.cfg.Sort.Column && e.col.Sortable() {
			v.sortIdx = i
			return nil
		}
	}
	for i, e := range v.entries {
		if e.col.Sortable() {
			v.sortIdx = i
			return nil
		}
	}
	return nil
}

func (v *View) treeIndex() int {
	for i, e := range v.entries {
		if e.col.Kind() == column.Tree {
			return i
		}
	}
	return 0
}

// Load collects snapshots from src and ingests them. An unreachable Docker
// daemon leaves Docker cells empty.
func (v *View) Load(ctx context.Context, src proc.Source) error {
	snaps, err := src.Collect(ctx, proc.Options{
		Interval: v.opt.SampleInterval(),
		Threads:  v.opt.ShowThreads(v.cfg),
	})
	if err != nil {
		if _, ok := err.(*errors.Error); ok {
			return err
		}
		return errors.WrapWithCode(err, errors.ErrSource, "Failed to list processes", "")
	}

	tick := v.newTick()
	if v.opts.Docker != nil && v.hasKind(column.Docker) {
		names, err := v.opts.Docker.Containers(ctx)
		if err != nil {
			v.log.Debug("docker: %v", err)
		}
		tick.Containers = names
	}
	v.Ingest(snaps, tick)
	return nil
}

func (v *View) newTick() *column.Tick {
	tick := column.NewTick(v.opts.Now())
	if v.opts.Users != nil {
		tick.Users = v.opts.Users
	}
	if v.opts.Groups != nil {
		tick.Groups = v.opts.Groups
	}
	tick.Substitutions = v.subs
	if v.cfg.Display.StartTimeFormat != "" {
		tick.StartTimeFormat = v.cfg.Display.StartTimeFormat
	}
	return tick
}

// Ingest feeds every snapshot to every column. Kernel threads are skipped
// unless [display] show_kthreads. A nil tick gets a fresh one.
func (v *View) Ingest(snaps []proc.Snapshot, tick *column.Tick) {
	if tick == nil {
		tick = v.newTick()
	}
	seen := make(map[int32]bool, len(v.pids)+len(snaps))
	for _, p := range v.pids {
		seen[p] = true
	}
	for i := range snaps {
		s := &snaps[i]
		if !v.cfg.Display.ShowKthreads && proc.IsKernelThread(s) {
			continue
		}
		for _, e := range v.entries {
			e.col.Add(s, tick)
		}
		if !seen[s.Pid] {
			seen[s.Pid] = true
			v.pids = append(v.pids, s.Pid)
		}
	}
	v.log.Debug("ingested %d processes into %d columns", len(v.pids), len(v.entries))
}

func (v *View) hasKind(k column.Kind) bool {
	for _, e := range v.entries {
		if e.col.Kind() == k {
			return true
		}
	}
	return false
}

// Columns returns the column vector in display order.
func (v *View) Columns() []column.Column {
	out := make([]column.Column, len(v.entries))
	for i, e := range v.entries {
		out[i] = e.col
	}
	return out
}

// Styles returns each column's style spec, for ui.NewStyler.
func (v *View) Styles() []string {
	out := make([]string, len(v.entries))
	for i, e := range v.entries {
		out[i] = e.conf.Style
	}
	return out
}

// Sort returns the sort column index and order.
func (v *View) Sort() (int, column.Order) { return v.sortIdx, v.order }

// SetSort overrides the sort column and order. It is ignored in tree mode
// and for out-of-range or unsortable indexes.
func (v *View) SetSort(idx int, order column.Order) {
	if v.tree != nil {
		return
	}
	if idx < 0 || idx >= len(v.entries) || !v.entries[idx].col.Sortable() {
		return
	}
	v.sortIdx, v.order = idx, order
}

// Tree reports whether the view is in tree mode.
func (v *View) Tree() bool { return v.tree != nil }

// Visible returns the PIDs to render, in order. It is set by Layout.
func (v *View) Visible() []int32 { return v.visible }

// Auxiliary reports whether pid is shown only as tree context.
func (v *View) Auxiliary(pid int32) bool { return v.auxiliary[pid] }

func compileSubstitutions(in []config.Substitution) ([]column.Substitution, error) {
	out := make([]column.Substitution, 0, len(in))
	for i, s := range in {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("cgroup.substitutions[%d]: invalid pattern", i),
				"Patterns use Go regexp syntax.")
		}
		out = append(out, column.Substitution{Pattern: re, Replacement: s.Replacement})
	}
	return out, nil
}
