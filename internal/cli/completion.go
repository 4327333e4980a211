package cli

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/pst/internal/errors"
	"github.com/spf13/cobra"
)

// genCompletion writes the completion script for shell to w.
func genCompletion(root *cobra.Command, shell string, w io.Writer) error {
	if err := validShell(shell); err != nil {
		return err
	}

	var err error
	switch shell {
	case "bash":
		err = root.GenBashCompletion(w)
	case "zsh":
		err = root.GenZshCompletion(w)
	case "fish":
		err = root.GenFishCompletion(w, true)
	case "powershell":
		err = root.GenPowerShellCompletionWithDesc(w)
	}
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrOutput,
			"Failed to generate "+shell+" completion", "")
	}
	return nil
}

// completionFileName is the file --gen-completion writes for shell.
func completionFileName(shell string) string {
	return "pst." + shell
}

// writeCompletionFile writes pst.<shell> into dir.
func writeCompletionFile(root *cobra.Command, shell, dir string) error {
	if err := validShell(shell); err != nil {
		return err
	}

	path := filepath.Join(dir, completionFileName(shell))
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrOutput,
			"Failed to create "+path,
			"Run from a writable directory or use --gen-completion-out.")
	}

	w := bufio.NewWriter(f)
	err = genCompletion(root, shell, w)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrOutput, "Failed to write "+path, "")
	}
	return nil
}
