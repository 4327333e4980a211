package cli

import (
	"context"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/pst/internal/column"
	"github.com/rileyhilliard/pst/internal/config"
	"github.com/rileyhilliard/pst/internal/docker"
	"github.com/rileyhilliard/pst/internal/errors"
	"github.com/rileyhilliard/pst/internal/logger"
	"github.com/rileyhilliard/pst/internal/proc"
	"github.com/rileyhilliard/pst/internal/term"
	"github.com/rileyhilliard/pst/internal/ui"
	"github.com/rileyhilliard/pst/internal/view"
	"github.com/rileyhilliard/pst/internal/watch"
	"github.com/spf13/cobra"
)

// newSource is replaced in tests.
var newSource = proc.NewSource

// run is the RunE of the root command.
func run(cmd *cobra.Command, opt *config.Opt, f *rootFlags, args []string) error {
	out := cmd.OutOrStdout()

	switch {
	case f.list:
		return listKinds(out)
	case f.genConfig:
		return config.Generate(out)
	case f.genCompletion != "":
		return writeCompletionFile(cmd.Root(), f.genCompletion, ".")
	case f.genCompletionOut != "":
		return genCompletion(cmd.Root(), f.genCompletionOut, out)
	}

	if err := applyFlags(opt, f); err != nil {
		return err
	}
	opt.Keywords = args
	if err := config.ValidateOpt(opt); err != nil {
		return err
	}

	cfg, err := config.Resolve(opt)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	vo := view.Options{
		Platform: proc.CurrentPlatform(),
		Self:     int32(os.Getpid()),
		Log:      logger.Named("view"),
	}
	if wantsDocker(cfg, opt) {
		r, err := docker.New(cfg.Docker.Path)
		if err != nil {
			logger.Named("cli").Debug("docker: %v", err)
		} else {
			defer r.Close()
			vo.Docker = r
		}
	}

	src := newSource()
	if opt.Watch {
		err = runWatch(cmd, cfg, opt, src, vo)
	} else {
		err = runOnce(ctx, cmd, cfg, opt, src, vo)
	}
	if err != nil && ctx.Err() != nil {
		return errors.NewExitError(errors.ExitInterrupted)
	}
	return err
}

// runOnce prints a single listing.
func runOnce(ctx context.Context, cmd *cobra.Command, cfg *config.Config, opt *config.Opt, src proc.Source, vo view.Options) error {
	out := cmd.OutOrStdout()

	v, err := view.New(cfg, opt, vo)
	if err != nil {
		return err
	}
	if err := v.Load(ctx, src); err != nil {
		return err
	}
	v.Filter()
	v.Layout()

	switch {
	case opt.JSON:
		return v.DisplayJSON(out)
	case opt.YAML:
		return v.DisplayYAML(out)
	}

	stdout, _ := out.(*os.File)
	d := v.Decide(view.Output{
		Stdout:    term.Probe(stdout),
		PipeWidth: term.Probe(os.Stderr).Width,
		GOOS:      runtime.GOOS,
	})

	st, err := ui.NewStyler(out, cfg.Style, v.Styles(), ui.Options{
		Color: d.Color,
		Theme: opt.ThemeMode(cfg),
	})
	if err != nil {
		return err
	}

	if d.Pager {
		p, err := view.StartPager(cfg.Pager.Command, out, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if p != nil {
			derr := v.Display(p.Writer(), st, d.Width)
			werr := p.Wait()
			if derr != nil && !isBrokenPipe(derr) {
				return derr
			}
			return werr
		}
		logger.Named("cli").Debug("no pager found, writing to stdout")
	}
	return v.Display(out, st, d.Width)
}

// runWatch hands the terminal to the watch loop.
func runWatch(cmd *cobra.Command, cfg *config.Config, opt *config.Opt, src proc.Source, vo view.Options) error {
	out := cmd.OutOrStdout()
	stdout, _ := out.(*os.File)
	info := term.Probe(stdout)
	width, height := info.Size()

	color := view.ColorEnabled(opt.ColorMode(cfg), info.TTY)
	theme := ui.DetectTheme(out, ui.Options{Color: color, Theme: opt.ThemeMode(cfg)})

	return watch.Run(watch.Options{
		Config: cfg,
		Opt:    opt,
		Source: src,
		View:   vo,
		Color:  color,
		Theme:  theme,
		Width:  width,
		Height: height,
	}, cmd.InOrStdin(), out)
}

// wantsDocker reports whether any shown column needs container names.
func wantsDocker(cfg *config.Config, opt *config.Opt) bool {
	for _, c := range cfg.Columns {
		if k, ok := column.ParseKind(c.Kind); ok && k == column.Docker {
			return true
		}
	}
	for _, name := range opt.Insert {
		if k, ok := column.ParseKind(name); ok && k == column.Docker {
			return true
		}
	}
	return false
}

// listKinds prints every column kind with its description.
func listKinds(w io.Writer) error {
	kinds := column.Kinds()
	width := 0
	for _, k := range kinds {
		width = max(width, len(k.String()))
	}
	name := lipgloss.NewStyle().Width(width + 2)

	var b strings.Builder
	for _, k := range kinds {
		b.WriteString(name.Render(k.String()))
		b.WriteString(k.Description())
		b.WriteByte('\n')
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.WrapWithCode(err, errors.ErrOutput, "Failed to write the kind list", "")
	}
	return nil
}
