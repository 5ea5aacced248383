package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/flick/internal/storage"
)

var tagClear bool

var tagCmd = &cobra.Command{
	Use:     "tag <clip-id> [tag...]",
	Short:   "Tag a clipboard history entry",
	GroupID: groupManage,
	Long: `Attach searchable tags to a clipboard history entry.

Tags are matched like the preview text in "flick clip" and shown next to
the entry. --clear drops the existing tags first; with no tags given it
only clears.

Examples:
  flick tag 42 work ssh
  flick tag --clear 42`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTag,
}

func init() {
	tagCmd.Flags().BoolVar(&tagClear, "clear", false, "Remove the entry's existing tags first")
}

func runTag(cmd *cobra.Command, args []string) error {
	clipID, tags := args[0], args[1:]
	if !tagClear && len(tags) == 0 {
		return fmt.Errorf("no tags given (use --clear to remove tags)")
	}

	e, err := newEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()
	store, err := e.requireStore()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if tagClear {
		err := store.ClearClipTags(ctx, clipID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
	}
	if len(tags) > 0 {
		if err := store.AddClipTags(ctx, clipID, tags...); err != nil {
			return err
		}
	}

	all, err := store.ClipTags(ctx)
	if err != nil {
		return err
	}
	current := strings.Join(all[clipID], ", ")
	if current == "" {
		current = colorDim + "(no tags)" + colorReset
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s%s%s: %s\n", colorCyan, clipID, colorReset, current)
	return nil
}
