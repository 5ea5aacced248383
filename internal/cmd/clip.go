package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/runger/flick/internal/launch"
	"github.com/runger/flick/internal/sanitize"
	"github.com/runger/flick/internal/source"
)

var clipPrintFlag bool

var clipCmd = &cobra.Command{
	Use:     "clip",
	Short:   "Pick a clipboard history entry and copy it",
	GroupID: groupPick,
	Long: `Pick a clipboard history entry and copy it back to the clipboard.

Entries are listed by clipboard.list_command (default "cliphist list") and
restored with clipboard.decode_command (default "cliphist decode"). Tags
added with "flick tag" are matched as well as the preview.

Examples:
  flick clip
  flick clip --print | wl-copy -t text/plain`,
	Args: cobra.NoArgs,
	RunE: runClip,
}

func init() {
	clipCmd.Flags().BoolVar(&clipPrintFlag, "print", false, "Print the entry instead of copying it")
}

func runClip(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	timeout := e.cfg.ClipTimeout()
	src, err := source.NewClipboard(e.cfg.Clipboard.ListCommand, timeout)
	if err != nil {
		return err
	}
	src.Tags = e.clipTags(cmd.Context())
	if e.cfg.Clipboard.RedactPreviews {
		src.Redactor = sanitize.NewRedactor()
	}

	sink, err := launch.NewClipboard(e.cfg.Clipboard.DecodeCommand, timeout)
	if err != nil {
		return err
	}
	sink.Print = clipPrintFlag
	sink.W = cmd.OutOrStdout()

	return e.pick(cmd.Context(), pickRequest{scope: scopeClip, src: src, sink: sink})
}

// clipTags loads user tags; without a database entries are simply untagged.
func (e *env) clipTags(ctx context.Context) map[string][]string {
	if noHistoryFlag {
		return nil
	}
	store, err := e.openStore()
	if err != nil {
		return nil
	}
	tags, err := store.ClipTags(ctx)
	if err != nil {
		e.logger.Warn("clipboard tags unavailable", "error", err)
		return nil
	}
	return tags
}
