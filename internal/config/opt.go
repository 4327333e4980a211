package config

import "time"

// DefaultInterval is the sampling interval used when --interval is absent.
const DefaultInterval = 100 * time.Millisecond

// Opt carries the command-line options that shape a single run. It is
// filled by the cli package and consumed by the view and watcher.
type Opt struct {
	Keywords []string

	And  bool
	Or   bool
	Nand bool
	Nor  bool

	Tree     bool
	Thread   bool
	Insert   []string
	Only     string
	NoHeader bool
	JSON     bool
	YAML     bool

	SortA string
	SortD string

	Watch         bool
	WatchInterval time.Duration

	Color string
	Theme string
	Pager string

	// Interval is the delay between the two samples used for rates.
	Interval time.Duration

	UseConfig  string
	LoadConfig string
}

// Logic resolves the keyword combination: an explicit flag wins over the
// configured [search] logic.
func (o *Opt) Logic(cfg *Config) string {
	switch {
	case o.And:
		return LogicAnd
	case o.Or:
		return LogicOr
	case o.Nand:
		return LogicNand
	case o.Nor:
		return LogicNor
	}
	return cfg.Search.Logic
}

// ColorMode resolves --color against [display] color_mode.
func (o *Opt) ColorMode(cfg *Config) string {
	if o.Color != "" {
		return o.Color
	}
	return cfg.Display.ColorMode
}

// ThemeMode resolves --theme against [display] theme.
func (o *Opt) ThemeMode(cfg *Config) string {
	if o.Theme != "" {
		return o.Theme
	}
	return cfg.Display.Theme
}

// PagerMode resolves -p/--pager against [pager] mode. Structured output
// and watch mode never page.
func (o *Opt) PagerMode(cfg *Config) string {
	if o.Watch || o.JSON || o.YAML {
		return ModeDisable
	}
	if o.Pager != "" {
		return o.Pager
	}
	return cfg.Pager.Mode
}

// SampleInterval returns Interval or DefaultInterval when unset.
func (o *Opt) SampleInterval() time.Duration {
	if o.Interval <= 0 {
		return DefaultInterval
	}
	return o.Interval
}

// ShowHeader reports whether the header and unit rows are printed.
func (o *Opt) ShowHeader(cfg *Config) bool {
	return cfg.Display.ShowHeader && !o.NoHeader
}

// ShowThreads reports whether threads are listed as their own rows.
func (o *Opt) ShowThreads(cfg *Config) bool {
	if o.Thread || cfg.Display.ShowThread {
		return true
	}
	return o.Tree && cfg.Display.ShowThreadInTree
}
