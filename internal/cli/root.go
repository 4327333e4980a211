package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rileyhilliard/pst/internal/config"
	"github.com/rileyhilliard/pst/internal/errors"
	"github.com/spf13/cobra"
)

// newRootCmd creates the pst command. Every call returns a command with
// fresh flag state.
func newRootCmd() *cobra.Command {
	opt := &config.Opt{}
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "pst [KEYWORD...]",
		Short: "A modern replacement for ps",
		Long: `pst lists processes as a coloured, searchable table.

Keywords filter the rows: a process is shown when a keyword matches any
searchable column (PID, user, command and so on). Several keywords are
combined with AND, or with the configured [search] logic, unless
-a/--and, -o/--or, -d/--nand or -r/--nor is given.

The columns, colours and defaults come from a TOML config file; run
'pst --gen-config' to print the built-in one.

Examples:
  pst                   # every process
  pst ssh 1000 -a       # processes matching both keywords
  pst -t                # process tree
  pst --sortd VmRss     # largest resident memory first
  pst -w                # redraw every second`,
		Version:       GetVersion(),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opt, f, args)
		},
	}
	cmd.SetVersionTemplate(versionText())
	addFlags(cmd, opt, f)
	return cmd
}

// Execute runs pst and exits the process on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	os.Exit(exitStatus(err, os.Stderr))
}

// exitStatus reports err on w and returns the process exit status.
func exitStatus(err error, w io.Writer) int {
	if err == nil || isBrokenPipe(err) {
		return 0
	}
	if _, silent := errors.GetExitCode(err); !silent {
		fmt.Fprintln(w, err.Error())
	}
	return errors.ExitStatus(err)
}

// isBrokenPipe reports whether err came from writing to a closed pipe.
func isBrokenPipe(err error) bool {
	return stderrors.Is(err, syscall.EPIPE)
}
