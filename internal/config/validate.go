package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rileyhilliard/pst/internal/errors"
)

// Validate checks the config for errors and normalises enum spellings to
// their canonical form ("and" → "And"). Column kinds and colour names are
// checked by the packages that own them when the view is built.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if len(cfg.Columns) == 0 {
		return errors.New(errors.ErrConfig,
			"No columns configured",
			"Add at least one [[columns]] entry.")
	}

	for i := range cfg.Columns {
		col := &cfg.Columns[i]
		if strings.TrimSpace(col.Kind) == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Column %d has no kind", i),
				"Set kind = \"Pid\" (or any name from 'pst --list').")
		}
		if err := normalize(&col.Align, "align", AlignLeft, AlignRight, AlignCenter); err != nil {
			return err
		}
		if col.MaxWidth < 0 || col.MinWidth < 0 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Column %d (%s) has a negative width limit", i, col.Kind),
				"Use 0 for no limit.")
		}
		if col.MaxWidth > 0 && col.MinWidth > col.MaxWidth {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Column %d (%s) has min_width %d above max_width %d", i, col.Kind, col.MinWidth, col.MaxWidth),
				"Lower min_width or raise max_width.")
		}
	}

	if err := validateSearch(&cfg.Search); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid [search] section", "Check the 'search' section in your config.")
	}
	if err := validateDisplay(&cfg.Display); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid [display] section", "Check the 'display' section in your config.")
	}

	if err := normalize(&cfg.Sort.Order, "sort.order", OrderAscending, OrderDescending); err != nil {
		return err
	}
	if cfg.Sort.Column < 0 || cfg.Sort.Column >= len(cfg.Columns) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("sort.column %d is out of range (have %d columns)", cfg.Sort.Column, len(cfg.Columns)),
			"Point sort.column at an index in [[columns]], counting from 0.")
	}

	if err := normalize(&cfg.Pager.Mode, "pager.mode", ModeAuto, ModeAlways, ModeDisable); err != nil {
		return err
	}

	for _, sub := range cfg.Cgroup.Substitutions {
		if _, err := regexp.Compile(sub.Pattern); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Invalid cgroup substitution pattern %q", sub.Pattern),
				"Patterns use Go regexp syntax.")
		}
	}

	return nil
}

func validateSearch(s *SearchConfig) error {
	if err := normalize(&s.NumericSearch, "search.numeric_search", SearchPartial, SearchExact); err != nil {
		return err
	}
	if err := normalize(&s.NonnumericSearch, "search.nonnumeric_search", SearchPartial, SearchExact); err != nil {
		return err
	}
	if err := normalize(&s.Logic, "search.logic", LogicAnd, LogicOr, LogicNand, LogicNor); err != nil {
		return err
	}
	return normalize(&s.Case, "search.case", CaseSmart, CaseSensitive, CaseInsensitive)
}

func validateDisplay(d *DisplayConfig) error {
	if err := normalize(&d.ColorMode, "display.color_mode", ModeAuto, ModeAlways, ModeDisable); err != nil {
		return err
	}
	if err := normalize(&d.Theme, "display.theme", ThemeAuto, ThemeDark, ThemeLight); err != nil {
		return err
	}
	if len(d.TreeSymbols) != 5 {
		return fmt.Errorf("tree_symbols needs exactly 5 entries [vertical, dash, fork, tee, elbow], got %d", len(d.TreeSymbols))
	}
	if d.StartTimeFormat == "" {
		return fmt.Errorf("start_time_format must not be empty")
	}
	return nil
}

// ValidateOpt checks command-line enum values, normalising them in place.
func ValidateOpt(opt *Opt) error {
	if opt.Color != "" {
		if err := normalize(&opt.Color, "--color", ModeAuto, ModeAlways, ModeDisable); err != nil {
			return err
		}
	}
	if opt.Pager != "" {
		if err := normalize(&opt.Pager, "--pager", ModeAuto, ModeAlways, ModeDisable); err != nil {
			return err
		}
	}
	if opt.Theme != "" {
		if err := normalize(&opt.Theme, "--theme", ThemeAuto, ThemeDark, ThemeLight); err != nil {
			return err
		}
	}
	return nil
}

// normalize replaces *val with the allowed spelling it matches
// case-insensitively, or reports the allowed set.
func normalize(val *string, field string, allowed ...string) error {
	for _, a := range allowed {
		if strings.EqualFold(*val, a) {
			*val = a
			return nil
		}
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("%s has invalid value %q", field, *val),
		"Valid values: "+strings.Join(allowed, ", "))
}
