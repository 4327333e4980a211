// Package column implements the per-attribute columns of the process table.
//
// A Column ingests every Snapshot of a tick, keeps a raw value (the sort key)
// and a formatted string per PID, and answers the layout, search and
// rendering questions the view asks. Concrete attributes share one
// implementation, Attribute, parameterised by an extractor; the process
// tree is the only column with its own type.
package column

import (
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/rileyhilliard/pst/internal/proc"
)

// Column is the contract every table column satisfies.
type Column interface {
	Kind() Kind

	// Add ingests one snapshot. Adding the same snapshot twice is a no-op.
	Add(s *proc.Snapshot, t *Tick)

	// SortedPids returns every ingested PID ordered by raw value, ties by
	// PID ascending. Unsortable columns return insertion order.
	SortedPids(order Order) []int32

	// FindPartial reports whether the formatted cell contains keyword.
	// fold makes the match case-insensitive.
	FindPartial(pid int32, keyword string, fold bool) bool
	// FindExact reports whether the formatted cell equals keyword. List
	// cells match when any element does.
	FindExact(pid int32, keyword string, fold bool) bool

	// ApplyVisible drops every PID not in pids.
	ApplyVisible(pids []int32)

	// ResetWidth sets the width to fit the header, marker and unit, or
	// minWidth if larger. order is non-nil for the sort column.
	ResetWidth(order *Order, minWidth int)
	// UpdateWidth widens the column to fit pid's cell, capped at maxWidth
	// when maxWidth > 0.
	UpdateWidth(pid int32, maxWidth int)

	DisplayHeader(align Align, order *Order) string
	DisplayUnit(align Align) string
	// DisplayContent returns pid's cell padded or truncated to Width, and
	// false if the column never saw pid.
	DisplayContent(pid int32, align Align) (string, bool)
	// DisplayJSON returns the raw value for structured output, and false
	// for columns that carry no data (tree, separators).
	DisplayJSON(pid int32) (any, bool)

	Width() int
	Header() string
	Sortable() bool
	Available() bool
}

// Align positions a cell within its column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// ParseAlign maps config spellings ("Left", "right", ...) to an Align,
// defaulting to AlignLeft.
func ParseAlign(s string) Align {
	switch strings.ToLower(s) {
	case "right":
		return AlignRight
	case "center", "centre":
		return AlignCenter
	}
	return AlignLeft
}

// Order is a sort direction.
type Order int

const (
	Ascending Order = iota
	Descending
)

// ParseOrder maps "Ascending"/"Descending" (any case) to an Order.
func ParseOrder(s string) Order {
	if strings.EqualFold(s, "descending") {
		return Descending
	}
	return Ascending
}

func (o Order) String() string {
	if o == Descending {
		return "Descending"
	}
	return "Ascending"
}

// Markers are appended to the sort column's header.
type Markers struct {
	Ascending  string
	Descending string
}

func (m Markers) For(order *Order) string {
	switch {
	case order == nil:
		return ""
	case *order == Descending:
		return m.Descending
	}
	return m.Ascending
}

// Substitution is one compiled cgroup rewrite rule.
type Substitution struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Tick is the context shared by every column during one collection: the
// reference time and the caches that would otherwise be queried per cell.
type Tick struct {
	Now             time.Time
	Users           *proc.NameCache
	Groups          *proc.NameCache
	Containers      map[string]string
	Substitutions   []Substitution
	StartTimeFormat string
}

// DefaultStartTimeFormat is the layout used for StartTime cells.
const DefaultStartTimeFormat = "2006/01/02 15:04"

// NewTick returns a Tick at now backed by the system user and group
// databases.
func NewTick(now time.Time) *Tick {
	return &Tick{
		Now:             now,
		Users:           proc.NewUserCache(),
		Groups:          proc.NewGroupCache(),
		StartTimeFormat: DefaultStartTimeFormat,
	}
}

// Compress applies the substitution rules in order.
func (t *Tick) Compress(cgroup string) string {
	for _, s := range t.Substitutions {
		cgroup = s.Pattern.ReplaceAllString(cgroup, s.Replacement)
	}
	return cgroup
}

// Ellipsis marks a cell cut to fit its column.
const Ellipsis = "…"

// Pad fits s into width display cells: shorter strings are padded per
// align, longer ones truncated with Ellipsis. Escape sequences do not count
// toward the width.
func Pad(s string, width int, align Align) string {
	w := ansi.StringWidth(s)
	if w > width {
		return ansi.Truncate(s, width, Ellipsis)
	}
	gap := width - w
	if gap == 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	}
	return s + strings.Repeat(" ", gap)
}
