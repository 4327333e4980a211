package cli

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/pst/internal/config"
	"github.com/rileyhilliard/pst/internal/errors"
	"github.com/spf13/cobra"
)

// rootFlags holds the flags that do not map onto config.Opt directly.
type rootFlags struct {
	watchSeconds     uint
	intervalMillis   uint
	list             bool
	genConfig        bool
	genCompletion    string
	genCompletionOut string
}

// completionShells are the shells --gen-completion accepts.
var completionShells = []string{"bash", "zsh", "fish", "powershell"}

// addFlags registers every pst flag on cmd, binding them to opt and f.
func addFlags(cmd *cobra.Command, opt *config.Opt, f *rootFlags) {
	fl := cmd.Flags()

	// Search logic
	fl.BoolVarP(&opt.And, "and", "a", false, "show processes matching all keywords")
	fl.BoolVarP(&opt.Or, "or", "o", false, "show processes matching any keyword")
	fl.BoolVarP(&opt.Nand, "nand", "d", false, "show processes not matching all keywords")
	fl.BoolVarP(&opt.Nor, "nor", "r", false, "show processes matching no keyword")
	cmd.MarkFlagsMutuallyExclusive("and", "or", "nand", "nor")

	// Display
	fl.BoolVarP(&opt.Tree, "tree", "t", false, "show processes as a tree")
	fl.BoolVar(&opt.Thread, "thread", false, "show threads as rows")
	fl.StringArrayVarP(&opt.Insert, "insert", "i", nil, "insert a column at a Slot position (repeatable)")
	fl.StringVar(&opt.Only, "only", "", "show only columns whose kind contains `KIND`")
	fl.BoolVar(&opt.NoHeader, "no-header", false, "hide the header and unit rows")
	fl.BoolVar(&opt.JSON, "json", false, "print the rows as JSON")
	fl.BoolVar(&opt.YAML, "yaml", false, "print the rows as YAML")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")

	// Sort
	fl.StringVar(&opt.SortA, "sorta", "", "sort ascending by the column whose kind contains `KIND`")
	fl.StringVar(&opt.SortD, "sortd", "", "sort descending by the column whose kind contains `KIND`")
	cmd.MarkFlagsMutuallyExclusive("sorta", "sortd")
	cmd.MarkFlagsMutuallyExclusive("sorta", "tree")
	cmd.MarkFlagsMutuallyExclusive("sortd", "tree")

	// Modes
	fl.BoolVarP(&opt.Watch, "watch", "w", false, "redraw every second until q is pressed")
	fl.UintVarP(&f.watchSeconds, "watch-interval", "W", 0, "redraw every `SEC` seconds")

	// Appearance
	fl.StringVarP(&opt.Color, "color", "c", "", "colour output: auto, always or disable")
	fl.StringVar(&opt.Theme, "theme", "", "colour theme: auto, dark or light")
	fl.StringVarP(&opt.Pager, "pager", "p", "", "pager use: auto, always or disable")

	// Sampling
	fl.UintVar(&f.intervalMillis, "interval", uint(config.DefaultInterval/time.Millisecond), "sampling interval in `MS`")

	// Config
	fl.StringVar(&opt.UseConfig, "use-config", "", "use the built-in config `NAME` (default or large) even when a config file exists")
	fl.StringVar(&opt.LoadConfig, "load-config", "", "load the config file at `PATH`")
	fl.BoolVar(&f.genConfig, "gen-config", false, "print the default config as TOML")
	fl.BoolVarP(&f.list, "list", "l", false, "list every column kind")

	// Completion
	fl.StringVar(&f.genCompletion, "gen-completion", "", "write pst.`SHELL` completion to the current directory")
	fl.StringVar(&f.genCompletionOut, "gen-completion-out", "", "print the `SHELL` completion script")
	cmd.MarkFlagsMutuallyExclusive("gen-completion", "gen-completion-out")

	shells := cobra.FixedCompletions(completionShells, cobra.ShellCompDirectiveNoFileComp)
	_ = cmd.RegisterFlagCompletionFunc("gen-completion", shells)
	_ = cmd.RegisterFlagCompletionFunc("gen-completion-out", shells)
	modes := cobra.FixedCompletions([]string{"auto", "always", "disable"}, cobra.ShellCompDirectiveNoFileComp)
	_ = cmd.RegisterFlagCompletionFunc("color", modes)
	_ = cmd.RegisterFlagCompletionFunc("pager", modes)
	_ = cmd.RegisterFlagCompletionFunc("theme",
		cobra.FixedCompletions([]string{"auto", "dark", "light"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("use-config",
		cobra.FixedCompletions([]string{"default", "large"}, cobra.ShellCompDirectiveNoFileComp))
}

// applyFlags copies the derived flag values onto opt.
func applyFlags(opt *config.Opt, f *rootFlags) error {
	if f.intervalMillis == 0 {
		return errors.New(errors.ErrConfig,
			"--interval must be at least 1",
			"The sampling interval is given in milliseconds, e.g. --interval 100.")
	}
	opt.Interval = time.Duration(f.intervalMillis) * time.Millisecond

	if f.watchSeconds > 0 {
		opt.Watch = true
		opt.WatchInterval = time.Duration(f.watchSeconds) * time.Second
	}
	return nil
}

// validShell reports whether shell is a supported completion target.
func validShell(shell string) error {
	for _, s := range completionShells {
		if s == shell {
			return nil
		}
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown shell: %s", shell),
		"Supported shells: bash, zsh, fish, powershell")
}
