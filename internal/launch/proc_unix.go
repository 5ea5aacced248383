//go:build !windows

package launch

import (
	"os/exec"
	"syscall"
)

// setProcAttr starts the child in a new session so closing the launching
// terminal does not take it down.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
}
