package view

import (
	"io"
	"os"
	"os/exec"

	"github.com/rileyhilliard/pst/internal/errors"
)

// Pager pipes the table through an external pager process.
type Pager struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// pagerArgs picks the pager: a configured command runs through the user's
// shell, otherwise "less -SR" or "more -f", whichever is installed.
func pagerArgs(configured string, lookPath func(string) (string, error)) ([]string, bool) {
	if configured != "" {
		shell := os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/sh"
		}
		return []string{shell, "-c", configured}, true
	}
	if p, err := lookPath("less"); err == nil {
		return []string{p, "-SR"}, true
	}
	if p, err := lookPath("more"); err == nil {
		return []string{p, "-f"}, true
	}
	return nil, false
}

// StartPager spawns the pager with its output on stdout. It returns nil
// and no error when no pager is installed, in which case the caller
// writes to stdout directly.
func StartPager(configured string, stdout, stderr io.Writer) (*Pager, error) {
	args, ok := pagerArgs(configured, exec.LookPath)
	if !ok {
		return nil, nil
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Env = append(os.Environ(), "LESSCHARSET=utf-8")
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrOutput,
			"Couldn't create pager pipe", "")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrOutput,
			"Couldn't start the pager "+args[0],
			"Set [pager] mode = \"Disable\" or fix [pager] command.")
	}
	return &Pager{cmd: cmd, stdin: stdin}, nil
}

// Writer is the pager's input.
func (p *Pager) Writer() io.Writer { return p.stdin }

// Wait closes the pager's input and waits for the user to quit it. A
// non-zero pager exit is not an error.
func (p *Pager) Wait() error {
	_ = p.stdin.Close()
	if err := p.cmd.Wait(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrOutput, "Pager failed", "")
	}
	return nil
}
