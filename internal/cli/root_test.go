package cli

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/rileyhilliard/pst/internal/config"
	"github.com/rileyhilliard/pst/internal/errors"
	"github.com/rileyhilliard/pst/internal/proc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigTOML = `
[[columns]]
kind = "Pid"
style = "BrightYellow|Yellow"
numeric_search = true
align = "Right"

[[columns]]
kind = "Command"
style = "BrightWhite|Default"
nonnumeric_search = true

[display]
cut_to_pipe = false

[pager]
mode = "Disable"
`

func snapshot(pid int32, args ...string) proc.Snapshot {
	curr := &proc.Sample{
		Pid:      pid,
		Ppid:     1,
		LoginUID: proc.UnknownLoginUID,
		Cmdline:  args,
	}
	return proc.Snapshot{
		Platform: proc.CurrentPlatform(),
		Pid:      pid,
		Ppid:     1,
		Prev:     curr,
		Curr:     curr,
		HasPrev:  true,
		Interval: time.Second,
	}
}

// setupRun isolates the config search path, writes the test config and
// serves two fixed processes.
func setupRun(t *testing.T) (configPath string, src *proc.StaticSource) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	configPath = filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfigTOML), 0644))

	src = &proc.StaticSource{Snapshots: []proc.Snapshot{
		snapshot(4001, "init"),
		snapshot(4007, "sshd", "-D"),
	}}
	orig := newSource
	newSource = func() proc.Source { return src }
	t.Cleanup(func() { newSource = orig })
	return configPath, src
}

// execute runs a fresh root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunListing(t *testing.T) {
	path, src := setupRun(t)

	out, err := execute(t, "--load-config", path, "--color", "disable", "--no-header")
	require.NoError(t, err)
	assert.Equal(t, 1, src.Calls)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "4001 init", strings.TrimSpace(lines[0]))
	assert.Equal(t, "4007 sshd -D", strings.TrimSpace(lines[1]))
}

func TestRunKeywordFilters(t *testing.T) {
	path, _ := setupRun(t)

	out, err := execute(t, "--load-config", path, "-c", "disable", "--no-header", "sshd")
	require.NoError(t, err)
	assert.Equal(t, "4007 sshd -D", strings.TrimSpace(out))
}

func TestRunNoMatchSucceeds(t *testing.T) {
	path, _ := setupRun(t)

	out, err := execute(t, "--load-config", path, "-c", "disable", "--no-header", "nothing-matches")
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(out))
}

func TestRunJSON(t *testing.T) {
	path, _ := setupRun(t)

	out, err := execute(t, "--load-config", path, "--json")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, float64(4001), rows[0]["PID"])
	assert.Equal(t, "sshd -D", rows[1]["Command"])
}

func TestRunYAML(t *testing.T) {
	path, _ := setupRun(t)

	out, err := execute(t, "--load-config", path, "--yaml", "init")
	require.NoError(t, err)
	assert.Equal(t, "- PID: 4001\n  Command: init\n", out)
}

func TestRunSortDescending(t *testing.T) {
	path, _ := setupRun(t)

	out, err := execute(t, "--load-config", path, "--json", "--sortd", "pid")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, float64(4007), rows[0]["PID"])
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"unknown only kind", []string{"--only", "NoSuchKind"}, errors.ErrKind},
		{"unknown sort kind", []string{"--sorta", "NoSuchKind"}, errors.ErrKind},
		{"bad color mode", []string{"--color", "sometimes"}, errors.ErrConfig},
		{"bad theme", []string{"--theme", "blue"}, errors.ErrConfig},
		{"zero interval", []string{"--interval", "0"}, errors.ErrConfig},
		{"unknown builtin", []string{"--use-config", "huge"}, errors.ErrConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupRun(t)
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestRunMissingConfigFile(t *testing.T) {
	setupRun(t)
	_, err := execute(t, "--load-config", filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestRunSourceError(t *testing.T) {
	path, src := setupRun(t)
	src.Err = fmt.Errorf("no /proc")

	_, err := execute(t, "--load-config", path, "--json")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSource))
}

func TestRunInterrupted(t *testing.T) {
	path, src := setupRun(t)
	src.Err = context.Canceled

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--load-config", path, "--json"})
	err := cmd.ExecuteContext(ctx)

	code, ok := errors.GetExitCode(err)
	require.True(t, ok)
	assert.Equal(t, errors.ExitInterrupted, code)

	var buf bytes.Buffer
	assert.Equal(t, 130, exitStatus(err, &buf))
	assert.Empty(t, buf.String())
}

func TestMutuallyExclusiveFlags(t *testing.T) {
	tests := [][]string{
		{"--and", "--or"},
		{"-a", "-r"},
		{"--sorta", "Pid", "--sortd", "Pid"},
		{"--sorta", "Pid", "--tree"},
		{"--sortd", "Pid", "-t"},
		{"--json", "--yaml"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			setupRun(t)
			_, err := execute(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "none of the others can be")
		})
	}
}

func TestListKinds(t *testing.T) {
	out, err := execute(t, "--list")
	require.NoError(t, err)

	assert.Contains(t, out, "VmRss")
	assert.Contains(t, out, "Resident set size")
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.GreaterOrEqual(t, len(strings.Fields(line)), 2, line)
	}
}

func TestGenConfig(t *testing.T) {
	out, err := execute(t, "--gen-config")
	require.NoError(t, err)

	cfg, err := config.LoadReader(strings.NewReader(out), "generated")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Columns, cfg.Columns)
}

func TestHelpDescribesDefaultLogic(t *testing.T) {
	long := newRootCmd().Long
	assert.Contains(t, long, "combined with AND, or with the configured [search] logic")
	assert.Equal(t, config.LogicAnd, config.DefaultConfig().Search.Logic)
}

func TestVersionFlag(t *testing.T) {
	origVersion, origCommit := version, commit
	defer func() { version, commit = origVersion, origCommit }()
	version, commit = "1.2.3", "abc1234"

	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "pst v1.2.3")
	assert.Contains(t, out, "commit: abc1234")
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name         string
		flags        rootFlags
		wantWatch    bool
		wantInterval time.Duration
		wantEvery    time.Duration
	}{
		{"defaults", rootFlags{intervalMillis: 100}, false, 100 * time.Millisecond, 0},
		{"custom interval", rootFlags{intervalMillis: 250}, false, 250 * time.Millisecond, 0},
		{"watch interval implies watch", rootFlags{intervalMillis: 100, watchSeconds: 3}, true, 100 * time.Millisecond, 3 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := &config.Opt{}
			require.NoError(t, applyFlags(opt, &tt.flags))
			assert.Equal(t, tt.wantWatch, opt.Watch)
			assert.Equal(t, tt.wantInterval, opt.Interval)
			assert.Equal(t, tt.wantEvery, opt.WatchInterval)
		})
	}
}

func TestWantsDocker(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Columns = []config.ColumnConfig{{Kind: "Pid"}, {Kind: "Slot"}}

	assert.False(t, wantsDocker(cfg, &config.Opt{}))
	assert.True(t, wantsDocker(cfg, &config.Opt{Insert: []string{"docker"}}))

	cfg.Columns = append(cfg.Columns, config.ColumnConfig{Kind: "Docker"})
	assert.True(t, wantsDocker(cfg, &config.Opt{}))
}

func TestExitStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantOutput string
	}{
		{"success", nil, 0, ""},
		{"broken pipe", errors.WrapWithCode(syscall.EPIPE, errors.ErrOutput, "Failed to write output", ""), 0, ""},
		{"exit error", errors.NewExitError(3), 3, ""},
		{"config error", errors.New(errors.ErrConfig, "Bad config", ""), 1, "Bad config"},
		{"plain error", stderrors.New("boom"), 1, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, tt.wantCode, exitStatus(tt.err, &buf))
			if tt.wantOutput == "" {
				assert.Empty(t, buf.String())
			} else {
				assert.Contains(t, buf.String(), tt.wantOutput)
			}
		})
	}
}

func TestIsBrokenPipe(t *testing.T) {
	assert.True(t, isBrokenPipe(syscall.EPIPE))
	assert.True(t, isBrokenPipe(fmt.Errorf("write: %w", syscall.EPIPE)))
	assert.False(t, isBrokenPipe(syscall.EINVAL))
	assert.False(t, isBrokenPipe(nil))
}
