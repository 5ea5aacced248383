package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/runger/flick/internal/storage"
	"github.com/runger/flick/internal/usage"
)

var (
	historyScope   string
	historyLimit   int
	historyLog     bool
	historySession string
)

// identityWidth bounds the identity column.
const identityWidth = 40

var historyCmd = &cobra.Command{
	Use:     "history",
	Short:   "Show usage counters or the launch log",
	GroupID: groupManage,
	Long: `Show what flick ranks by.

Without --log, lists usage counters by count with their current frecency
(0 to 1, decaying with ranking.frecency_tau_hours) and pin state.
With --log, lists individual selections, newest first.

Examples:
  flick history                      # Usage counters of every scope
  flick history --scope apps -n 5    # Top five apps
  flick history --log                # Recent selections`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyScope, "scope", "", "Scope: apps, dmenu or clip (default: all)")
	f.IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of rows to show")
	f.BoolVar(&historyLog, "log", false, "Show the launch log instead of counters")
	f.StringVar(&historySession, "session", "", "With --log, only this session id")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyScope != "" {
		if err := validScope(historyScope); err != nil {
			return err
		}
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

	out := cmd.OutOrStdout()
	now := time.Now()
	if historyLog {
		launches, err := store.QueryLaunches(cmd.Context(), storage.LaunchQuery{
			Scope:     historyScope,
			SessionID: historySession,
			Limit:     historyLimit,
		})
		if err != nil {
			return err
		}
		printLaunches(out, launches, now)
		return nil
	}

	rows, err := store.TopUsage(cmd.Context(), historyScope, historyLimit)
	if err != nil {
		return err
	}
	printUsage(out, rows, now, e.cfg.Tau())
	return nil
}

func printUsage(w io.Writer, rows []storage.UsageRow, now time.Time, tau time.Duration) {
	if len(rows) == 0 {
		writeLine(w, "No usage recorded yet.")
		return
	}
	fmt.Fprintf(w, "%s%-6s %s %6s %8s  %-10s%s\n", colorBold,
		"SCOPE", runewidth.FillRight("IDENTITY", identityWidth), "COUNT", "FRECENCY", "LAST USED", colorReset)
	for _, r := range rows {
		pin := ""
		if r.Pinned {
			pin = colorYellow + " pinned" + colorReset
		}
		frecency := usage.Normalize(usage.Decayed(r.Entry, now.UnixMilli(), tau))
		fmt.Fprintf(w, "%-6s %s %6d %8.3f  %s%-10s%s%s\n",
			r.Scope,
			cell(r.Identity, identityWidth),
			r.Entry.Count,
			frecency,
			colorDim, formatAge(now, r.Entry.LastUsedMs), colorReset,
			pin)
	}
}

func printLaunches(w io.Writer, launches []storage.Launch, now time.Time) {
	if len(launches) == 0 {
		writeLine(w, "No launches logged yet.")
		return
	}
	for _, l := range launches {
		ts := time.UnixMilli(l.TsMs)
		fmt.Fprintf(w, "%s%s%s  %-6s %s  %s%s%s\n",
			colorDim, ts.Format("2006-01-02 15:04:05"), colorReset,
			l.Scope,
			cell(l.Identity, identityWidth),
			colorDim, formatAge(now, l.TsMs), colorReset)
	}
}

// cell truncates s to width display columns and pads it to exactly width.
func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

// formatAge renders the time since tsMs compactly.
func formatAge(now time.Time, tsMs int64) string {
	if tsMs <= 0 {
		return "never"
	}
	d := now.Sub(time.UnixMilli(tsMs))
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return strconv.Itoa(int(d/time.Minute)) + "m ago"
	case d < 48*time.Hour:
		return strconv.Itoa(int(d/time.Hour)) + "h ago"
	default:
		return strconv.Itoa(int(d/(24*time.Hour))) + "d ago"
	}
}
