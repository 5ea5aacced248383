package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runger/flick/internal/item"
	"github.com/runger/flick/internal/launch"
	"github.com/runger/flick/internal/source"
)

var (
	dmenuDelimiter string
	dmenuWithNth   string
	dmenuMatchNth  string
	dmenuAcceptNth string
	dmenuPrompt    string
)

var dmenuCmd = &cobra.Command{
	Use:     "dmenu",
	Short:   "Pick a line from stdin and print it",
	GroupID: groupPick,
	Long: `Pick a line from stdin and print it to stdout.

Lines keep their input order on equal scores. Columns are 1-based and split
on --delimiter (whitespace runs when empty). Column lists look like "1",
"1,3", "2-4" or "2-".

Examples:
  ls | flick dmenu
  git branch --format='%(refname:short)' | flick dmenu -q main
  ps -eo pid,comm | flick dmenu --with-nth 2 --accept-nth 1`,
	Args: cobra.NoArgs,
	RunE: runDmenu,
}

func init() {
	f := dmenuCmd.Flags()
	f.StringVarP(&dmenuDelimiter, "delimiter", "d", "", "Column delimiter (default: dmenu.delimiter, whitespace when empty)")
	f.StringVar(&dmenuWithNth, "with-nth", "", "Columns to display and match as the primary text")
	f.StringVar(&dmenuMatchNth, "match-nth", "", "Extra columns to match as secondary text")
	f.StringVar(&dmenuAcceptNth, "accept-nth", "", "Columns to print for the accepted line")
	f.StringVarP(&dmenuPrompt, "prompt", "p", "", "Prompt (default: picker.prompt)")
}

func runDmenu(cmd *cobra.Command, args []string) error {
	with, err := parseNth("with-nth", dmenuWithNth)
	if err != nil {
		return err
	}
	match, err := parseNth("match-nth", dmenuMatchNth)
	if err != nil {
		return err
	}
	accept, err := parseNth("accept-nth", dmenuAcceptNth)
	if err != nil {
		return err
	}

	e, err := newEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	delim := e.cfg.Dmenu.Delimiter
	if cmd.Flags().Changed("delimiter") {
		delim = dmenuDelimiter
	}

	return e.pick(cmd.Context(), pickRequest{
		scope: scopeDmenu,
		src: &source.Lines{
			R:         cmd.InOrStdin(),
			Delimiter: delim,
			With:      with,
			Match:     match,
		},
		sink: &launch.Stdout{
			W:         cmd.OutOrStdout(),
			Delimiter: delim,
			Nth:       accept,
		},
		prompt: dmenuPrompt,
	})
}

func parseNth(flag, spec string) (item.ColumnSpec, error) {
	cs, err := item.ParseColumnSpec(spec)
	if err != nil {
		return item.ColumnSpec{}, fmt.Errorf("--%s: %w", flag, err)
	}
	return cs, nil
}
