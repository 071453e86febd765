//go:build windows

package executor

import (
	"os/exec"
)

func setProcessGroup(cmd *exec.Cmd) {}

// Windows has no SIGINT for child processes; both stages kill.
func interruptProcessGroup(cmd *exec.Cmd) error {
	return killProcessGroup(cmd)
}

func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
