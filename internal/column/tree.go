package column

import (
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/rileyhilliard/pst/internal/proc"
)

// Connector indexes into the tree symbol set.
const (
	symVertical = iota
	symDash
	symFork
	symTee
	symElbow
)

// TreeColumn draws the parent/child forest in front of each row.
//
// A PID is a root when it is its own parent or its parent was never added.
// Roots are drawn as if they had later siblings.
type TreeColumn struct {
	symbols  [5]string
	children map[int32][]int32
	parent   map[int32]int32
	width    int
}

// NewTree returns an empty tree column drawing with opts.TreeSymbols, or
// DefaultTreeSymbols when unset.
func NewTree(opts Options) *TreeColumn {
	symbols := opts.TreeSymbols
	if symbols == ([5]string{}) {
		symbols = DefaultTreeSymbols
	}
	return &TreeColumn{
		symbols:  symbols,
		children: make(map[int32][]int32),
		parent:   make(map[int32]int32),
	}
}

func (c *TreeColumn) Kind() Kind      { return Tree }
func (c *TreeColumn) Header() string  { return "" }
func (c *TreeColumn) Width() int      { return c.width }
func (c *TreeColumn) Sortable() bool  { return true }
func (c *TreeColumn) Available() bool { return true }

func (c *TreeColumn) Add(s *proc.Snapshot, _ *Tick) {
	if old, ok := c.parent[s.Pid]; ok {
		if old == s.Ppid {
			return
		}
		c.children[old] = remove(c.children[old], s.Pid)
	}
	c.parent[s.Pid] = s.Ppid
	c.children[s.Ppid] = insertSorted(c.children[s.Ppid], s.Pid)
}

// SortedPids walks the forest depth-first from each root in ascending PID
// order. order is ignored: the tree has one layout.
func (c *TreeColumn) SortedPids(Order) []int32 {
	roots := make([]int32, 0)
	for pid := range c.parent {
		if c.isRoot(pid) {
			roots = append(roots, pid)
		}
	}
	sortPids(roots)

	out := make([]int32, 0, len(c.parent))
	seen := make(map[int32]bool, len(c.parent))
	var walk func(pid int32)
	walk = func(pid int32) {
		if seen[pid] {
			return
		}
		seen[pid] = true
		out = append(out, pid)
		for _, ch := range c.children[pid] {
			if ch != pid {
				walk(ch)
			}
		}
	}
	for _, r := range roots {
		walk(r)
	}

	// Members of a parent cycle have no root; list them after the forest.
	if len(out) < len(c.parent) {
		var rest []int32
		for pid := range c.parent {
			if !seen[pid] {
				rest = append(rest, pid)
			}
		}
		sortPids(rest)
		for _, pid := range rest {
			walk(pid)
		}
	}
	return out
}

func (c *TreeColumn) FindPartial(int32, string, bool) bool { return false }
func (c *TreeColumn) FindExact(int32, string, bool) bool   { return false }

// ApplyVisible prunes the forest to pids so connectors reflect only the
// rows on screen.
func (c *TreeColumn) ApplyVisible(pids []int32) {
	keep := make(map[int32]bool, len(pids))
	for _, p := range pids {
		keep[p] = true
	}
	for pid := range c.parent {
		if !keep[pid] {
			delete(c.parent, pid)
		}
	}
	for p, list := range c.children {
		kept := list[:0]
		for _, ch := range list {
			if keep[ch] {
				kept = append(kept, ch)
			}
		}
		if len(kept) == 0 {
			delete(c.children, p)
			continue
		}
		c.children[p] = kept
	}
}

func (c *TreeColumn) ResetWidth(_ *Order, minWidth int) {
	c.width = max(minWidth, 0)
}

func (c *TreeColumn) UpdateWidth(pid int32, maxWidth int) {
	if _, ok := c.parent[pid]; !ok {
		return
	}
	w := c.depth(pid) + 4
	if maxWidth > 0 && w > maxWidth {
		w = maxWidth
	}
	c.width = max(c.width, w)
}

func (c *TreeColumn) DisplayHeader(align Align, _ *Order) string {
	return Pad("", c.width, align)
}

func (c *TreeColumn) DisplayUnit(align Align) string {
	return Pad("", c.width, align)
}

func (c *TreeColumn) DisplayContent(pid int32, _ Align) (string, bool) {
	if _, ok := c.parent[pid]; !ok {
		return "", false
	}

	var prefix []string
	x := pid
	for range c.parent {
		p := c.parent[x]
		if p == x || !c.isKey(p) {
			break
		}
		if c.isLast(p) {
			prefix = append(prefix, " ")
		} else {
			prefix = append(prefix, c.symbols[symVertical])
		}
		x = p
	}

	var b strings.Builder
	for i := len(prefix) - 1; i >= 0; i-- {
		b.WriteString(prefix[i])
	}
	if c.isLast(pid) {
		b.WriteString(c.symbols[symElbow])
	} else {
		b.WriteString(c.symbols[symTee])
	}
	if c.hasChildren(pid) {
		b.WriteString(c.symbols[symFork])
	} else {
		b.WriteString(c.symbols[symDash])
	}

	s := b.String()
	if gap := c.width - ansi.StringWidth(s); gap > 0 {
		s += strings.Repeat(c.symbols[symDash], gap)
	}
	return Pad(s, c.width, AlignLeft), true
}

// DisplayJSON emits an empty string: connectors mean nothing outside a
// terminal.
func (c *TreeColumn) DisplayJSON(pid int32) (any, bool) {
	if !c.isKey(pid) {
		return nil, false
	}
	return "", true
}

// Ancestors returns pid's ancestors, nearest first, stopping at a root.
func (c *TreeColumn) Ancestors(pid int32) []int32 {
	var out []int32
	x := pid
	for range c.parent {
		p, ok := c.parent[x]
		if !ok || p == x || !c.isKey(p) {
			break
		}
		out = append(out, p)
		x = p
	}
	return out
}

// Descendants returns every PID below pid, in pre-order.
func (c *TreeColumn) Descendants(pid int32) []int32 {
	var out []int32
	seen := map[int32]bool{pid: true}
	var walk func(p int32)
	walk = func(p int32) {
		for _, ch := range c.children[p] {
			if seen[ch] {
				continue
			}
			seen[ch] = true
			out = append(out, ch)
			walk(ch)
		}
	}
	walk(pid)
	return out
}

func (c *TreeColumn) isKey(pid int32) bool {
	_, ok := c.parent[pid]
	return ok
}

func (c *TreeColumn) isRoot(pid int32) bool {
	p := c.parent[pid]
	return p == pid || !c.isKey(p)
}

func (c *TreeColumn) isLast(pid int32) bool {
	if c.isRoot(pid) {
		return false
	}
	sibs := c.children[c.parent[pid]]
	return len(sibs) > 0 && sibs[len(sibs)-1] == pid
}

func (c *TreeColumn) hasChildren(pid int32) bool {
	for _, ch := range c.children[pid] {
		if ch != pid {
			return true
		}
	}
	return false
}

// depth counts ancestor steps up to a root. The walk is bounded by the
// number of keys so a parent cycle cannot loop forever.
func (c *TreeColumn) depth(pid int32) int {
	return len(c.Ancestors(pid))
}

func insertSorted(list []int32, pid int32) []int32 {
	i := sort.Search(len(list), func(i int) bool { return list[i] >= pid })
	if i < len(list) && list[i] == pid {
		return list
	}
	list = append(list, 0)
	copy(list[i+1:], list[i:])
	list[i] = pid
	return list
}

func remove(list []int32, pid int32) []int32 {
	for i, p := range list {
		if p == pid {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func sortPids(pids []int32) {
	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
}
