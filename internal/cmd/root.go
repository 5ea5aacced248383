// Package cmd implements the flick command tree.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSelected    = 0 // An item was accepted and delivered
	exitNoSelection = 1 // Cancelled, or nothing to pick from
	exitError       = 2 // Fallback: no usable terminal, locked, or failure
)

// Command groups for help output.
const (
	groupPick   = "pick"
	groupManage = "manage"
)

var (
	// ErrLocked is returned when another picker holds the instance lock.
	ErrLocked = errors.New("another flick picker is already running")

	// errNoSelection maps to exitNoSelection without printing anything.
	errNoSelection = errors.New("no selection")
)

// Flags shared by the picker commands.
var (
	exactFlag       bool
	queryFlag       string
	hardStopFlag    bool
	prefixDepthFlag int
)

var rootCmd = &cobra.Command{
	Use:   "flick",
	Short: "Launch apps and pick lines with tiered fuzzy ranking",
	Long: `flick - a keyboard launcher and picker

Without a subcommand, flick lists desktop applications (same as "flick apps").
Results are ranked by match quality first, then by how often and how
recently you picked them. Pinned items always rank first.

Exit status: 0 on selection, 1 when cancelled, 2 on error.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runApps,
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return exitCode(rootCmd.ExecuteContext(ctx), os.Stderr)
}

// exitCode reports err on w and maps it to an exit code.
func exitCode(err error, w io.Writer) int {
	switch {
	case err == nil:
		return exitSelected
	case errors.Is(err, errNoSelection):
		return exitNoSelection
	default:
		fmt.Fprintf(w, "flick: %v\n", err)
		return exitError
	}
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupPick, Title: "Pickers:"},
		&cobra.Group{ID: groupManage, Title: "Usage and settings:"},
	)
	rootCmd.SetHelpCommandGroupID(groupManage)
	rootCmd.SetCompletionCommandGroupID(groupManage)

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&exactFlag, "exact", "e", false, "Exact substring matching instead of fuzzy")
	pf.StringVarP(&queryFlag, "query", "q", "", "Initial query")
	pf.BoolVar(&hardStopFlag, "hard-stop", false, "Stop at the list ends instead of wrapping")
	pf.IntVar(&prefixDepthFlag, "prefix-depth", 0, "Query length up to which word starts are checked (0 = config)")
	pf.BoolVar(&noHistoryFlag, "no-history", false, "Keep usage in memory for this run only")

	rootCmd.AddCommand(appsCmd, dmenuCmd, clipCmd)
	rootCmd.AddCommand(pinCmd, historyCmd, tagCmd, configCmd, versionCmd)
}
