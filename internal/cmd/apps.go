package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/flick/internal/item"
	"github.com/runger/flick/internal/launch"
	"github.com/runger/flick/internal/source"
)

var appsPrintFlag bool

var appsCmd = &cobra.Command{
	Use:     "apps",
	Short:   "Pick and launch a desktop application",
	GroupID: groupPick,
	Long: `Pick and launch a desktop application.

Applications come from the XDG application directories ($XDG_DATA_HOME and
$XDG_DATA_DIRS, plus apps.extra_dirs from the config). The selected
application is started detached from flick; terminal applications are
wrapped with apps.terminal.

Examples:
  flick apps                 # Pick an application
  flick apps -q fire         # Start with a query
  flick apps --print         # Print the command line instead of launching`,
	Args: cobra.NoArgs,
	RunE: runApps,
}

func init() {
	appsCmd.Flags().BoolVar(&appsPrintFlag, "print", false, "Print the command line instead of launching")
}

func runApps(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	ex, err := launch.NewExec(e.cfg.Apps.Terminal)
	if err != nil {
		return err
	}
	var sink launch.Sink = ex
	if appsPrintFlag {
		sink = &argvPrinter{exec: ex, w: cmd.OutOrStdout()}
	}

	return e.pick(cmd.Context(), pickRequest{
		scope: scopeApps,
		src:   e.desktopScanner(),
		sink:  sink,
	})
}

func (e *env) desktopScanner() *source.DesktopScanner {
	s := &source.DesktopScanner{
		Dirs:     source.AppDirs(e.cfg.Apps.ExtraDirs),
		Locale:   source.LocaleFromEnv(e.cfg.Apps.Locale),
		Desktops: source.CurrentDesktops(e.cfg.Apps.Desktops),
		Logger:   e.logger,
	}
	if e.cfg.Apps.Cache {
		s.CachePath = e.paths.DesktopCacheFile()
	}
	return s
}

// argvPrinter prints the command line Exec would run.
type argvPrinter struct {
	exec *launch.Exec
	w    io.Writer
}

func (p *argvPrinter) Deliver(_ context.Context, it *item.Item) error {
	argv, err := p.exec.Argv(it)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.w, strings.Join(argv, " "))
	return err
}
