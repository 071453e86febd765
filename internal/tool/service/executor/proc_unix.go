//go:build !windows

package executor

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProcessGroup puts the interpreter in its own process group so that
// signals reach every descendant.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func signalProcessGroup(cmd *exec.Cmd, sig unix.Signal) error {
	if cmd.Process == nil {
		return nil
	}
	return unix.Kill(-cmd.Process.Pid, sig)
}

func interruptProcessGroup(cmd *exec.Cmd) error {
	return signalProcessGroup(cmd, unix.SIGINT)
}

func killProcessGroup(cmd *exec.Cmd) error {
	return signalProcessGroup(cmd, unix.SIGKILL)
}
