package column

import (
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/rileyhilliard/pst/internal/proc"
)

// extractor computes a cell from a snapshot. It must return the zero Value
// of the column's type and "" when the data is missing.
type extractor func(s *proc.Snapshot, t *Tick) (Value, string)

// Attribute is the column implementation shared by every kind except Tree.
type Attribute struct {
	kind      Kind
	header    string
	unit      string
	markers   Markers
	extract   extractor
	sortable  bool
	available bool
	list      bool
	jsonless  bool

	raw   map[int32]Value
	fmt   map[int32]string
	pids  []int32
	width int
}

func newAttribute(kind Kind, opts Options, extract extractor) *Attribute {
	header := kind.Header()
	if opts.Header != "" {
		header = opts.Header
	}
	c := &Attribute{
		kind:      kind,
		header:    header,
		unit:      kind.Unit(),
		markers:   opts.Markers,
		extract:   extract,
		sortable:  true,
		available: kind.SupportedOn(opts.Platform),
		raw:       make(map[int32]Value),
		fmt:       make(map[int32]string),
	}
	c.ResetWidth(nil, 0)
	return c
}

func (c *Attribute) Kind() Kind      { return c.kind }
func (c *Attribute) Header() string  { return c.header }
func (c *Attribute) Width() int      { return c.width }
func (c *Attribute) Sortable() bool  { return c.sortable }
func (c *Attribute) Available() bool { return c.available }

func (c *Attribute) Add(s *proc.Snapshot, t *Tick) {
	if s.Curr == nil {
		s = withEmptySample(s)
	}
	raw, text := c.extract(s, t)
	if _, seen := c.raw[s.Pid]; !seen {
		c.pids = append(c.pids, s.Pid)
	}
	c.raw[s.Pid] = raw
	c.fmt[s.Pid] = text
}

func (c *Attribute) SortedPids(order Order) []int32 {
	out := make([]int32, len(c.pids))
	copy(out, c.pids)
	if !c.sortable {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		cmp := c.raw[a].Compare(c.raw[b])
		if order == Descending {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp < 0
		}
		return a < b
	})
	return out
}

func (c *Attribute) FindPartial(pid int32, keyword string, fold bool) bool {
	text, ok := c.fmt[pid]
	if !ok {
		return false
	}
	if fold {
		return strings.Contains(strings.ToLower(text), strings.ToLower(keyword))
	}
	return strings.Contains(text, keyword)
}

func (c *Attribute) FindExact(pid int32, keyword string, fold bool) bool {
	text, ok := c.fmt[pid]
	if !ok {
		return false
	}
	eq := func(a string) bool {
		if fold {
			return strings.EqualFold(a, keyword)
		}
		return a == keyword
	}
	if !c.list {
		return eq(text)
	}
	for _, e := range listElements(text) {
		if eq(e) {
			return true
		}
	}
	return false
}

func (c *Attribute) ApplyVisible(pids []int32) {
	keep := make(map[int32]struct{}, len(pids))
	for _, p := range pids {
		keep[p] = struct{}{}
	}
	kept := c.pids[:0]
	for _, p := range c.pids {
		if _, ok := keep[p]; ok {
			kept = append(kept, p)
			continue
		}
		delete(c.raw, p)
		delete(c.fmt, p)
	}
	c.pids = kept
}

func (c *Attribute) ResetWidth(order *Order, minWidth int) {
	c.width = max(
		ansi.StringWidth(c.header+c.markers.For(order)),
		ansi.StringWidth(c.unit),
		minWidth,
	)
}

func (c *Attribute) UpdateWidth(pid int32, maxWidth int) {
	w := ansi.StringWidth(c.fmt[pid])
	if maxWidth > 0 && w > maxWidth {
		w = maxWidth
	}
	c.width = max(c.width, w)
}

func (c *Attribute) DisplayHeader(align Align, order *Order) string {
	return Pad(c.header+c.markers.For(order), c.width, align)
}

func (c *Attribute) DisplayUnit(align Align) string {
	return Pad(c.unit, c.width, align)
}

func (c *Attribute) DisplayContent(pid int32, align Align) (string, bool) {
	text, ok := c.fmt[pid]
	if !ok {
		return "", false
	}
	return Pad(text, c.width, align), true
}

func (c *Attribute) DisplayJSON(pid int32) (any, bool) {
	if c.jsonless {
		return nil, false
	}
	v, ok := c.raw[pid]
	if !ok {
		return nil, false
	}
	return v.Interface(), true
}

// withEmptySample stands in a blank sample so extractors never see nil.
func withEmptySample(s *proc.Snapshot) *proc.Snapshot {
	cp := *s
	cp.Curr = &proc.Sample{
		Pid:      s.Pid,
		Ppid:     s.Ppid,
		LoginUID: proc.UnknownLoginUID,
		Policy:   proc.UnknownPolicy,
	}
	cp.Prev = cp.Curr
	cp.HasPrev = false
	return &cp
}
