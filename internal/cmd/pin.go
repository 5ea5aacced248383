package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
)

var pinScope string

var pinCmd = &cobra.Command{
	Use:     "pin [identity]",
	Short:   "Toggle or list pinned items",
	GroupID: groupManage,
	Long: `Toggle the pin on an item, or list the pinned items of a scope.

Pinned items rank above everything else that matches. The identity is the
application name for apps, the full line for dmenu and the history id for
clip. Ctrl+T toggles the pin from inside the picker.

Examples:
  flick pin                          # List pinned apps
  flick pin Firefox                  # Toggle the pin on Firefox
  flick pin --scope dmenu "main"     # Toggle a dmenu line`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPin,
}

func init() {
	pinCmd.Flags().StringVar(&pinScope, "scope", scopeApps, "Scope: apps, dmenu or clip")
}

func runPin(cmd *cobra.Command, args []string) error {
	if err := validScope(pinScope); err != nil {
		return err
	}
	if noHistoryFlag {
		return fmt.Errorf("pins are stored in the database; drop --no-history")
	}
	e, err := newEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()
	if _, err := e.requireStore(); err != nil {
		return err
	}

	ctx := cmd.Context()
	us := e.usageStore(pinScope)
	rec := us.Load(ctx)
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		printPins(out, pinScope, rec.PinnedIDs())
		return nil
	}

	identity := args[0]
	pinned, err := us.TogglePin(ctx, identity)
	if err != nil {
		return fmt.Errorf("failed to save pin: %w", err)
	}
	state := "unpinned"
	if pinned {
		state = "pinned"
	}
	fmt.Fprintf(out, "%s%s%s %s (%s)\n", colorCyan, state, colorReset, identity, pinScope)
	return nil
}

func printPins(w io.Writer, scope string, pins map[string]struct{}) {
	if len(pins) == 0 {
		fmt.Fprintf(w, "No pinned %s items.\n", scope)
		return
	}
	ids := make([]string, 0, len(pins))
	for id := range pins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		writeLine(w, id)
	}
}
