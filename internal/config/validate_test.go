package config

import (
	"testing"

	"github.com/rileyhilliard/pst/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(cfg *Config)
		wantErr     bool
		errContains string
	}{
		{
			name:   "default is valid",
			mutate: func(cfg *Config) {},
		},
		{
			name:        "no columns",
			mutate:      func(cfg *Config) { cfg.Columns = nil },
			wantErr:     true,
			errContains: "No columns configured",
		},
		{
			name:        "empty kind",
			mutate:      func(cfg *Config) { cfg.Columns[1].Kind = " " },
			wantErr:     true,
			errContains: "Column 1 has no kind",
		},
		{
			name:        "bad align",
			mutate:      func(cfg *Config) { cfg.Columns[0].Align = "Middle" },
			wantErr:     true,
			errContains: "align has invalid value",
		},
		{
			name:        "negative width",
			mutate:      func(cfg *Config) { cfg.Columns[0].MaxWidth = -1 },
			wantErr:     true,
			errContains: "negative width",
		},
		{
			name: "min above max",
			mutate: func(cfg *Config) {
				cfg.Columns[0].MaxWidth = 5
				cfg.Columns[0].MinWidth = 8
			},
			wantErr:     true,
			errContains: "min_width 8 above max_width 5",
		},
		{
			name:        "bad logic",
			mutate:      func(cfg *Config) { cfg.Search.Logic = "Xor" },
			wantErr:     true,
			errContains: "search.logic",
		},
		{
			name:        "bad case",
			mutate:      func(cfg *Config) { cfg.Search.Case = "Upper" },
			wantErr:     true,
			errContains: "search.case",
		},
		{
			name:        "bad search mode",
			mutate:      func(cfg *Config) { cfg.Search.NumericSearch = "Fuzzy" },
			wantErr:     true,
			errContains: "search.numeric_search",
		},
		{
			name:        "bad colour mode",
			mutate:      func(cfg *Config) { cfg.Display.ColorMode = "Never" },
			wantErr:     true,
			errContains: "display.color_mode",
		},
		{
			name:        "bad theme",
			mutate:      func(cfg *Config) { cfg.Display.Theme = "Solarized" },
			wantErr:     true,
			errContains: "display.theme",
		},
		{
			name:        "four tree symbols",
			mutate:      func(cfg *Config) { cfg.Display.TreeSymbols = cfg.Display.TreeSymbols[:4] },
			wantErr:     true,
			errContains: "exactly 5 entries",
		},
		{
			name:        "empty start time format",
			mutate:      func(cfg *Config) { cfg.Display.StartTimeFormat = "" },
			wantErr:     true,
			errContains: "start_time_format",
		},
		{
			name:        "bad sort order",
			mutate:      func(cfg *Config) { cfg.Sort.Order = "Up" },
			wantErr:     true,
			errContains: "sort.order",
		},
		{
			name:        "sort column out of range",
			mutate:      func(cfg *Config) { cfg.Sort.Column = len(cfg.Columns) },
			wantErr:     true,
			errContains: "sort.column",
		},
		{
			name:        "negative sort column",
			mutate:      func(cfg *Config) { cfg.Sort.Column = -1 },
			wantErr:     true,
			errContains: "sort.column",
		},
		{
			name:        "bad pager mode",
			mutate:      func(cfg *Config) { cfg.Pager.Mode = "Sometimes" },
			wantErr:     true,
			errContains: "pager.mode",
		},
		{
			name: "bad cgroup pattern",
			mutate: func(cfg *Config) {
				cfg.Cgroup.Substitutions = append(cfg.Cgroup.Substitutions, Substitution{Pattern: "([a-z"})
			},
			wantErr:     true,
			errContains: "cgroup substitution pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestValidateNil(t *testing.T) {
	err := Validate(nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestValidateNormalisesCase(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Columns[0].Align = "right"
	cfg.Search.Logic = "NAND"
	cfg.Search.Case = "insensitive"
	cfg.Display.ColorMode = "always"
	cfg.Display.Theme = "light"
	cfg.Sort.Order = "descending"
	cfg.Pager.Mode = "disable"

	require.NoError(t, Validate(cfg))

	assert.Equal(t, AlignRight, cfg.Columns[0].Align)
	assert.Equal(t, LogicNand, cfg.Search.Logic)
	assert.Equal(t, CaseInsensitive, cfg.Search.Case)
	assert.Equal(t, ModeAlways, cfg.Display.ColorMode)
	assert.Equal(t, ThemeLight, cfg.Display.Theme)
	assert.Equal(t, OrderDescending, cfg.Sort.Order)
	assert.Equal(t, ModeDisable, cfg.Pager.Mode)
}

func TestValidateOpt(t *testing.T) {
	tests := []struct {
		name    string
		opt     Opt
		want    Opt
		wantErr string
	}{
		{name: "empty", opt: Opt{}, want: Opt{}},
		{
			name: "lower case values",
			opt:  Opt{Color: "always", Pager: "disable", Theme: "dark"},
			want: Opt{Color: ModeAlways, Pager: ModeDisable, Theme: ThemeDark},
		},
		{name: "bad colour", opt: Opt{Color: "never"}, wantErr: "--color"},
		{name: "bad pager", opt: Opt{Pager: "less"}, wantErr: "--pager"},
		{name: "bad theme", opt: Opt{Theme: "blue"}, wantErr: "--theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := tt.opt
			err := ValidateOpt(&opt)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, opt)
		})
	}
}
