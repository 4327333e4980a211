// Package cli implements the pst command-line interface.
//
// pst has a single Cobra command. Positional arguments are search
// keywords; everything else is a flag that ends up in a config.Opt:
//
//	pst                     - list every process
//	pst ssh 1000 -a         - processes matching both keywords
//	pst -t                  - process tree
//	pst --sortd VmRss       - sort by resident memory, largest first
//	pst -w                  - redraw every second
//	pst --json              - machine-readable rows
//
// # Run Flow
//
// A one-shot run resolves the configuration, builds a view.View, loads one
// tick from the process source, filters and lays it out, then writes it
// through the pager, to a terminal or to a pipe as view.Decide chooses.
// Watch mode hands the same inputs to watch.Run.
//
// Informational flags (--list, --gen-config, --gen-completion,
// --gen-completion-out) print and return before any process is sampled.
//
// # Errors
//
// Execute prints *errors.Error values to stderr and exits 1. A broken
// pipe, usually a pager or "head" that quit early, exits 0 silently.
package cli
