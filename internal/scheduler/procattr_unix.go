//go:build unix

package scheduler

import (
	"os/exec"
	"syscall"
)

// killProcessGroup starts cmd in its own process group and kills the whole
// group on cancellation, so site wrapper scripts do not leave their
// children behind.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
