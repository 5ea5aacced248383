package cmd

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ANSI codes for the non-interactive commands' output. Cleared when
// stdout cannot show colour.
var (
	colorYellow = "\033[0;33m"
	colorCyan   = "\033[0;36m"
	colorDim    = "\033[2m"
	colorBold   = "\033[1m"
	colorReset  = "\033[0m"
)

func init() {
	if shouldDisableColors(os.Stdout) {
		disableColors()
	}
}

// shouldDisableColors honours NO_COLOR (https://no-color.org/) and
// otherwise asks termenv whether w is a colour terminal.
func shouldDisableColors(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	return termenv.NewOutput(w).ColorProfile() == termenv.Ascii
}

func disableColors() {
	colorYellow = ""
	colorCyan = ""
	colorDim = ""
	colorBold = ""
	colorReset = ""
}
