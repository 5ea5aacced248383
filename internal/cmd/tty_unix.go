//go:build !windows

package cmd

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// minTermWidth is the narrowest terminal the picker renders in.
const minTermWidth = 20

func openTTY() (*os.File, error) {
	return openTTYFile("/dev/tty")
}

// checkTTY verifies there is a usable terminal: TERM is not dumb, /dev/tty
// opens, and it is at least minTermWidth columns wide.
func checkTTY() error {
	if os.Getenv("TERM") == "dumb" {
		return fmt.Errorf("TERM=dumb is not supported")
	}
	f, err := openTTY()
	if err != nil {
		return fmt.Errorf("no terminal available: %w", err)
	}
	defer f.Close()

	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return fmt.Errorf("cannot get terminal size: %w", err)
	}
	if ws.Col < minTermWidth {
		return fmt.Errorf("terminal too narrow (%d columns, need at least %d)", ws.Col, minTermWidth)
	}
	return nil
}
