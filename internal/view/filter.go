package view

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/rileyhilliard/pst/internal/config"
)

// logic folds per-keyword hits into a verdict.
type logic struct {
	init   bool
	and    bool
	negate bool
}

func parseLogic(s string) logic {
	switch {
	case strings.EqualFold(s, config.LogicOr):
		return logic{init: false}
	case strings.EqualFold(s, config.LogicNand):
		return logic{init: true, and: true, negate: true}
	case strings.EqualFold(s, config.LogicNor):
		return logic{init: false, negate: true}
	}
	return logic{init: true, and: true}
}

func (l logic) fold(acc, hit bool) bool {
	if l.and {
		return acc && hit
	}
	return acc || hit
}

// keyword is one search term with its case handling resolved.
type keyword struct {
	text    string
	numeric bool
	fold    bool
}

func parseKeywords(words []string, caseMode string) []keyword {
	out := make([]keyword, 0, len(words))
	for _, w := range words {
		_, err := strconv.ParseInt(w, 10, 64)
		k := keyword{text: w, numeric: err == nil}
		switch {
		case strings.EqualFold(caseMode, config.CaseInsensitive):
			k.fold = true
		case strings.EqualFold(caseMode, config.CaseSensitive):
			k.fold = false
		default:
			k.fold = !hasUpper(w)
		}
		out = append(out, k)
	}
	return out
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// Filter decides which ingested PIDs match the keywords and, in tree
// mode, which extra PIDs are shown as context.
//
// Numeric keywords (anything that parses as an int64) search the
// numeric_search columns; the rest search the nonnumeric_search columns.
// Each group folds its keyword hits with the search logic, the two groups
// are combined with the same operator, and NAND/NOR negate the result.
func (v *View) Filter() {
	v.matched = make(map[int32]bool, len(v.pids))
	v.auxiliary = make(map[int32]bool)

	kws := parseKeywords(v.opt.Keywords, v.cfg.Search.Case)
	l := parseLogic(v.opt.Logic(v.cfg))

	for _, pid := range v.pids {
		if !v.cfg.Display.ShowSelf && pid == v.opts.Self && v.opts.Self != 0 {
			continue
		}
		if len(kws) == 0 || v.match(pid, kws, l) {
			v.matched[pid] = true
		}
	}

	if v.tree == nil || len(kws) == 0 {
		return
	}
	for pid := range v.matched {
		if v.cfg.Display.ShowParentInTree {
			for _, a := range v.tree.Ancestors(pid) {
				v.addAuxiliary(a)
			}
		}
		if v.cfg.Display.ShowChildrenInTree {
			for _, d := range v.tree.Descendants(pid) {
				v.addAuxiliary(d)
			}
		}
	}
}

func (v *View) addAuxiliary(pid int32) {
	if v.matched[pid] {
		return
	}
	if !v.cfg.Display.ShowSelf && pid == v.opts.Self && v.opts.Self != 0 {
		return
	}
	v.auxiliary[pid] = true
}

func (v *View) match(pid int32, kws []keyword, l logic) bool {
	nonNumeric, numeric := l.init, l.init
	for _, k := range kws {
		hit := v.hit(pid, k)
		if k.numeric {
			numeric = l.fold(numeric, hit)
		} else {
			nonNumeric = l.fold(nonNumeric, hit)
		}
	}
	ret := l.fold(nonNumeric, numeric)
	if l.negate {
		return !ret
	}
	return ret
}

// hit reports whether any searchable column matches k for pid.
func (v *View) hit(pid int32, k keyword) bool {
	mode := v.cfg.Search.NonnumericSearch
	if k.numeric {
		mode = v.cfg.Search.NumericSearch
	}
	exact := strings.EqualFold(mode, config.SearchExact)

	for _, e := range v.entries {
		if k.numeric && !e.conf.NumericSearch {
			continue
		}
		if !k.numeric && !e.conf.NonnumericSearch {
			continue
		}
		if exact {
			if e.col.FindExact(pid, k.text, k.fold) {
				return true
			}
		} else if e.col.FindPartial(pid, k.text, k.fold) {
			return true
		}
	}
	return false
}

// Matched reports whether pid matched the keywords.
func (v *View) Matched(pid int32) bool { return v.matched[pid] }
