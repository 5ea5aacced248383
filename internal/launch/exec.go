package launch

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/google/shlex"
	"golang.org/x/sys/execabs"

	"github.com/runger/flick/internal/item"
)

// DefaultTerminal wraps Terminal=true applications.
const DefaultTerminal = "x-terminal-emulator -e"

// Exec starts application items as detached processes.
type Exec struct {
	// Terminal is the wrapper argv prepended for terminal applications.
	Terminal []string
	// Dir is the working directory; empty means the user's home.
	Dir string

	// start is a test seam; it defaults to starting and releasing cmd.
	start func(cmd *exec.Cmd) error
}

// NewExec parses the terminal wrapper command.
func NewExec(terminal string) (*Exec, error) {
	if terminal == "" {
		terminal = DefaultTerminal
	}
	argv, err := shlex.Split(terminal)
	if err != nil {
		return nil, fmt.Errorf("parse terminal command: %w", err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("terminal command is empty")
	}
	return &Exec{Terminal: argv}, nil
}

// Argv returns the command line that Deliver would run for it.
func (e *Exec) Argv(it *item.Item) ([]string, error) {
	if len(it.Exec) == 0 {
		return nil, fmt.Errorf("%s: %w", it.Primary, ErrNoCommand)
	}
	if !it.Terminal {
		return append([]string(nil), it.Exec...), nil
	}
	argv := make([]string, 0, len(e.Terminal)+len(it.Exec))
	argv = append(argv, e.Terminal...)
	return append(argv, it.Exec...), nil
}

// Deliver implements Sink. The child runs in its own session with stdio
// on /dev/null and is never waited on, so it outlives flick.
func (e *Exec) Deliver(ctx context.Context, it *item.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	argv, err := e.Argv(it)
	if err != nil {
		return err
	}

	// execabs refuses binaries resolved relative to the current directory.
	cmd := execabs.Command(argv[0], argv[1:]...)
	cmd.Dir = e.Dir
	if cmd.Dir == "" {
		cmd.Dir, _ = os.UserHomeDir()
	}
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	setProcAttr(cmd)

	start := e.start
	if start == nil {
		start = startDetached
	}
	if err := start(cmd); err != nil {
		return fmt.Errorf("launch %s: %w", it.Primary, err)
	}
	return nil
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
