package view

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rileyhilliard/pst/internal/column"
	"github.com/rileyhilliard/pst/internal/errors"
	"github.com/rileyhilliard/pst/internal/term"
	"github.com/rileyhilliard/pst/internal/ui"
	"github.com/rileyhilliard/pst/internal/util"
	"gopkg.in/yaml.v3"
)

const reset = "\x1b[0m"

// Lines renders the table as lines without trailing newlines: header and
// unit rows (unless disabled), one row per visible PID and the optional
// footer. Rows are cut to width when width > 0.
func (v *View) Lines(st *ui.Styler, width int) []string {
	var lines []string
	emit := func(cells []string) {
		line := strings.Join(cells, " ")
		if width > 0 && term.Width(line) > width {
			line = term.Truncate(line, width)
			if st.Enabled() {
				line += reset
			}
		}
		lines = append(lines, line)
	}

	if v.opt.ShowHeader(v.cfg) {
		header := make([]string, len(v.entries))
		unit := make([]string, len(v.entries))
		for i, e := range v.entries {
			header[i] = e.col.DisplayHeader(e.align, v.sortMarker(i))
			unit[i] = e.col.DisplayUnit(e.align)
		}
		emit(styleCells(trimTrailing(header), st.Header))
		emit(styleCells(trimTrailing(unit), st.Unit))
	}

	for _, pid := range v.visible {
		aux := v.auxiliary[pid]
		cells := make([]string, len(v.entries))
		for i, e := range v.entries {
			cells[i], _ = e.col.DisplayContent(pid, e.align)
		}
		cells = trimTrailing(cells)
		for i := range cells {
			if v.entries[i].col.Kind() == column.Tree {
				cells[i] = st.Tree(cells[i], aux)
			} else {
				cells[i] = st.Cell(i, cells[i], aux)
			}
		}
		emit(cells)
	}

	if v.cfg.Display.ShowFooter {
		n := len(v.visible)
		lines = append(lines, fmt.Sprintf("%d %s", n, util.Pluralize(n, "process", "processes")))
	}
	return lines
}

// Display writes the table to w.
func (v *View) Display(w io.Writer, st *ui.Styler, width int) error {
	bw := bufio.NewWriter(w)
	for _, line := range v.Lines(st, width) {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return outputError(err)
		}
	}
	if err := bw.Flush(); err != nil {
		return outputError(err)
	}
	return nil
}

// trimTrailing drops the blank cells at the end of a row and the padding
// of the last non-blank one.
func trimTrailing(cells []string) []string {
	for len(cells) > 0 {
		last := strings.TrimRight(cells[len(cells)-1], " ")
		if last != "" {
			cells[len(cells)-1] = last
			return cells
		}
		cells = cells[:len(cells)-1]
	}
	return cells
}

func styleCells(cells []string, style func(string) string) []string {
	for i := range cells {
		cells[i] = style(cells[i])
	}
	return cells
}

func outputError(err error) error {
	return errors.WrapWithCode(err, errors.ErrOutput, "Failed to write output", "")
}

// field is one key/value of a record; records keep column order.
type field struct {
	key   string
	value any
}

type record []field

func (r record) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

func (r record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range r {
		var key, val yaml.Node
		if err := key.Encode(f.key); err != nil {
			return nil, err
		}
		if err := val.Encode(f.value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &key, &val)
	}
	return node, nil
}

// records returns one record per visible PID keyed by column header.
// Separator and Empty columns are left out, the tree is an empty string
// under its empty header, and a header seen twice keeps its first column.
func (v *View) records() []record {
	out := make([]record, 0, len(v.visible))
	for _, pid := range v.visible {
		rec := make(record, 0, len(v.entries))
		seen := make(map[string]bool, len(v.entries))
		for _, e := range v.entries {
			val, ok := e.col.DisplayJSON(pid)
			if !ok || seen[e.col.Header()] {
				continue
			}
			seen[e.col.Header()] = true
			rec = append(rec, field{key: e.col.Header(), value: val})
		}
		out = append(out, rec)
	}
	return out
}

// DisplayJSON writes the visible rows as a JSON array of objects.
func (v *View) DisplayJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v.records()); err != nil {
		return outputError(err)
	}
	return nil
}

// DisplayYAML writes the visible rows as a YAML sequence of mappings.
func (v *View) DisplayYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v.records()); err != nil {
		return outputError(err)
	}
	if err := enc.Close(); err != nil {
		return outputError(err)
	}
	return nil
}
