package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rileyhilliard/pst/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotEmpty(t, cfg.Columns)
	assert.Equal(t, "Pid", cfg.Columns[0].Kind)
	assert.Equal(t, "Command", cfg.Columns[len(cfg.Columns)-1].Kind)
	assert.Equal(t, SearchExact, cfg.Search.NumericSearch)
	assert.Equal(t, SearchPartial, cfg.Search.NonnumericSearch)
	assert.Equal(t, LogicAnd, cfg.Search.Logic)
	assert.Equal(t, CaseSmart, cfg.Search.Case)
	assert.Equal(t, ModeAuto, cfg.Display.ColorMode)
	assert.Equal(t, ThemeAuto, cfg.Display.Theme)
	assert.Equal(t, "▲", cfg.Display.Ascending)
	assert.Equal(t, "▼", cfg.Display.Descending)
	assert.Equal(t, DefaultTreeSymbols, cfg.Display.TreeSymbols)
	assert.Equal(t, OrderAscending, cfg.Sort.Order)
	assert.Equal(t, ModeAuto, cfg.Pager.Mode)
	assert.NotEmpty(t, cfg.Cgroup.Substitutions)

	require.NoError(t, Validate(cfg))
}

func TestDefaultConfigIsolated(t *testing.T) {
	a := DefaultConfig()
	a.Display.TreeSymbols[0] = "|"
	a.Columns[0].Kind = "Ppid"

	b := DefaultConfig()
	assert.Equal(t, "│", b.Display.TreeSymbols[0])
	assert.Equal(t, "Pid", b.Columns[0].Kind)
	assert.Equal(t, "│", DefaultTreeSymbols[0])
}

func TestBuiltin(t *testing.T) {
	tests := []struct {
		name    string
		wantOK  bool
		columns int
	}{
		{name: "", wantOK: true, columns: len(defaultColumns())},
		{name: "default", wantOK: true, columns: len(defaultColumns())},
		{name: "large", wantOK: true, columns: len(largeColumns())},
		{name: "huge", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, ok := Builtin(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Nil(t, cfg)
				return
			}
			assert.Len(t, cfg.Columns, tt.columns)
			assert.NoError(t, Validate(cfg))
		})
	}
}

func TestLargeConfigHasMoreColumns(t *testing.T) {
	assert.Greater(t, len(LargeConfig().Columns), len(DefaultConfig().Columns))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)

	content := `
[[columns]]
kind = "Pid"
style = "BrightYellow|Yellow"
numeric_search = true
align = "Right"

[[columns]]
kind = "Command"
style = "BrightWhite|Default"
nonnumeric_search = true
max_width = 40

[search]
logic = "Or"

[display]
show_footer = true
theme = "Light"

[sort]
column = 1
order = "Descending"

[pager]
mode = "Disable"
command = "bat"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	require.Len(t, cfg.Columns, 2)
	assert.Equal(t, "Pid", cfg.Columns[0].Kind)
	assert.True(t, cfg.Columns[0].NumericSearch)
	assert.Equal(t, AlignRight, cfg.Columns[0].Align)
	assert.Equal(t, "Command", cfg.Columns[1].Kind)
	assert.Equal(t, AlignLeft, cfg.Columns[1].Align, "missing align defaults to Left")
	assert.Equal(t, 40, cfg.Columns[1].MaxWidth)

	assert.Equal(t, LogicOr, cfg.Search.Logic)
	assert.Equal(t, CaseSmart, cfg.Search.Case, "unset keys keep defaults")
	assert.True(t, cfg.Display.ShowFooter)
	assert.True(t, cfg.Display.ShowHeader)
	assert.Equal(t, ThemeLight, cfg.Display.Theme)
	assert.Equal(t, DefaultTreeSymbols, cfg.Display.TreeSymbols)
	assert.Equal(t, 1, cfg.Sort.Column)
	assert.Equal(t, OrderDescending, cfg.Sort.Order)
	assert.Equal(t, ModeDisable, cfg.Pager.Mode)
	assert.Equal(t, "bat", cfg.Pager.Command)
	assert.Equal(t, defaultSubstitutions(), cfg.Cgroup.Substitutions)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.toml")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadReaderInvalidTOML(t *testing.T) {
	_, err := LoadReader(strings.NewReader("[[columns]\nkind = "), "broken.toml")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "broken.toml")
}

func TestLoadReaderReplacesSlices(t *testing.T) {
	content := `
[display]
tree_symbols = ["|", "-", "+", "+", "` + "`" + `"]

[cgroup]
substitutions = []
`
	cfg, err := LoadReader(strings.NewReader(content), "test")
	require.NoError(t, err)

	assert.Equal(t, []string{"|", "-", "+", "+", "`"}, cfg.Display.TreeSymbols)
	assert.Empty(t, cfg.Cgroup.Substitutions, "an explicit empty table disables the defaults")
	assert.Equal(t, defaultColumns(), cfg.Columns)
}

func TestGenerateRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf))

	out := buf.String()
	assert.Contains(t, out, "[[columns]]")
	assert.Contains(t, out, "Pid")
	assert.Contains(t, out, "[search]")
	assert.Contains(t, out, "[display]")

	cfg, err := LoadReader(strings.NewReader(out), "generated")
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestFind(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) (explicit, want string)
		wantErr bool
	}{
		{
			name: "explicit path exists",
			setup: func(t *testing.T) (string, string) {
				path := filepath.Join(t.TempDir(), "custom.toml")
				require.NoError(t, os.WriteFile(path, []byte(""), 0644))
				return path, path
			},
		},
		{
			name: "explicit path not found",
			setup: func(t *testing.T) (string, string) {
				return "/nonexistent/config.toml", ""
			},
			wantErr: true,
		},
		{
			name: "xdg config wins over home",
			setup: func(t *testing.T) (string, string) {
				xdg := t.TempDir()
				home := t.TempDir()
				t.Setenv("XDG_CONFIG_HOME", xdg)
				t.Setenv("HOME", home)

				path := filepath.Join(xdg, ConfigDirName, ConfigFileName)
				require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
				require.NoError(t, os.WriteFile(path, []byte(""), 0644))
				require.NoError(t, os.WriteFile(filepath.Join(home, HomeConfigFile), []byte(""), 0644))
				return "", path
			},
		},
		{
			name: "home dotfile",
			setup: func(t *testing.T) (string, string) {
				home := t.TempDir()
				t.Setenv("XDG_CONFIG_HOME", "")
				t.Setenv("HOME", home)

				path := filepath.Join(home, HomeConfigFile)
				require.NoError(t, os.WriteFile(path, []byte(""), 0644))
				return "", path
			},
		},
		{
			name: "nothing found",
			setup: func(t *testing.T) (string, string) {
				t.Setenv("XDG_CONFIG_HOME", t.TempDir())
				t.Setenv("HOME", t.TempDir())
				return "", ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			explicit, want := tt.setup(t)

			path, err := Find(explicit)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, want, path)
		})
	}
}

func TestResolve(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	t.Run("built-in large", func(t *testing.T) {
		cfg, err := Resolve(&Opt{UseConfig: "large"})
		require.NoError(t, err)
		assert.Len(t, cfg.Columns, len(largeColumns()))
	})

	t.Run("unknown built-in", func(t *testing.T) {
		_, err := Resolve(&Opt{UseConfig: "tiny"})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})

	t.Run("no flags and no file is the default built-in", func(t *testing.T) {
		cfg, err := Resolve(&Opt{})
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().Columns, cfg.Columns)
	})

	t.Run("load-config normalises enums", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pst.toml")
		require.NoError(t, os.WriteFile(path, []byte("[search]\nlogic = \"nor\"\n"), 0644))

		cfg, err := Resolve(&Opt{LoadConfig: path})
		require.NoError(t, err)
		assert.Equal(t, LogicNor, cfg.Search.Logic)
	})

	t.Run("load-config invalid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pst.toml")
		require.NoError(t, os.WriteFile(path, []byte("[pager]\nmode = \"sometimes\"\n"), 0644))

		_, err := Resolve(&Opt{LoadConfig: path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pager.mode")
	})
}

func TestResolveBuiltinOverDiscoveredFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, HomeConfigFile),
		[]byte("[[columns]]\nkind = \"Pid\"\n"), 0644))

	cfg, err := Resolve(&Opt{})
	require.NoError(t, err)
	assert.Len(t, cfg.Columns, 1, "a discovered file beats the default built-in")

	cfg, err = Resolve(&Opt{UseConfig: "large"})
	require.NoError(t, err)
	assert.Len(t, cfg.Columns, len(largeColumns()), "an explicit built-in beats a discovered file")

	explicit := filepath.Join(t.TempDir(), "pst.toml")
	require.NoError(t, os.WriteFile(explicit, []byte("[[columns]]\nkind = \"Command\"\n"), 0644))
	cfg, err = Resolve(&Opt{UseConfig: "large", LoadConfig: explicit})
	require.NoError(t, err)
	require.Len(t, cfg.Columns, 1)
	assert.Equal(t, "Command", cfg.Columns[0].Kind)
}

func TestOpt(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("logic flag beats config", func(t *testing.T) {
		assert.Equal(t, LogicAnd, (&Opt{}).Logic(cfg))
		assert.Equal(t, LogicOr, (&Opt{Or: true}).Logic(cfg))
		assert.Equal(t, LogicNand, (&Opt{Nand: true}).Logic(cfg))
		assert.Equal(t, LogicNor, (&Opt{Nor: true}).Logic(cfg))
	})

	t.Run("structured output never pages", func(t *testing.T) {
		assert.Equal(t, ModeDisable, (&Opt{JSON: true, Pager: ModeAlways}).PagerMode(cfg))
		assert.Equal(t, ModeDisable, (&Opt{YAML: true}).PagerMode(cfg))
		assert.Equal(t, ModeDisable, (&Opt{Watch: true}).PagerMode(cfg))
		assert.Equal(t, ModeAlways, (&Opt{Pager: ModeAlways}).PagerMode(cfg))
		assert.Equal(t, ModeAuto, (&Opt{}).PagerMode(cfg))
	})

	t.Run("colour and theme", func(t *testing.T) {
		assert.Equal(t, ModeAuto, (&Opt{}).ColorMode(cfg))
		assert.Equal(t, ModeDisable, (&Opt{Color: ModeDisable}).ColorMode(cfg))
		assert.Equal(t, ThemeLight, (&Opt{Theme: ThemeLight}).ThemeMode(cfg))
	})

	t.Run("sample interval", func(t *testing.T) {
		assert.Equal(t, DefaultInterval, (&Opt{}).SampleInterval())
		assert.Equal(t, 250*time.Millisecond, (&Opt{Interval: 250 * time.Millisecond}).SampleInterval())
	})

	t.Run("header", func(t *testing.T) {
		assert.True(t, (&Opt{}).ShowHeader(cfg))
		assert.False(t, (&Opt{NoHeader: true}).ShowHeader(cfg))
	})

	t.Run("threads", func(t *testing.T) {
		assert.False(t, (&Opt{}).ShowThreads(cfg))
		assert.True(t, (&Opt{Thread: true}).ShowThreads(cfg))
		assert.False(t, (&Opt{Tree: true}).ShowThreads(cfg))

		withTree := DefaultConfig()
		withTree.Display.ShowThreadInTree = true
		assert.True(t, (&Opt{Tree: true}).ShowThreads(withTree))
	})
}
