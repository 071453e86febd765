package executor

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/Cyclone1070/shellagent/internal/config"
	"github.com/sirupsen/logrus"
)

// waitDelay bounds how long Wait blocks on output pipes that a stray
// descendant still holds after the shell itself has exited.
const waitDelay = 2 * time.Second

// OSCommandExecutor runs commands through the host shell interpreter.
type OSCommandExecutor struct {
	config *config.Config
}

// NewOSCommandExecutor creates a new OSCommandExecutor with injected config.
func NewOSCommandExecutor(cfg *config.Config) *OSCommandExecutor {
	if cfg == nil {
		panic("cfg is required")
	}
	return &OSCommandExecutor{config: cfg}
}

// Execute runs command with dir as working directory and returns its outcome.
// It never returns an error: launch failures, timeouts and cancellation are
// recorded on the Outcome.
//
// On timeout the whole process group is interrupted, then killed after the
// configured grace period, so no descendant outlives the call.
func (e *OSCommandExecutor) Execute(ctx context.Context, command, dir string, timeout time.Duration) *Outcome {
	shell := e.config.Shell
	log := logrus.WithFields(logrus.Fields{
		"command": shellescape.Quote(command),
		"dir":     dir,
		"timeout": timeout,
	})
	log.Debug("Executing shell command")

	start := time.Now()

	stdout := newCollector(int(shell.MaxOutputBytes), binarySampleSize)
	stderr := newCollector(int(shell.MaxOutputBytes), binarySampleSize)

	cmd := exec.Command(shell.Interpreter, shell.InterpreterFlag, command)
	cmd.Dir = dir
	cmd.Stdin = nil
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		launchErr := &CommandError{Cmd: shell.Interpreter, Cause: err, Stage: "start"}
		log.WithError(err).Debug("Shell command failed to launch")
		return &Outcome{
			ExitCode:  -1,
			LaunchErr: launchErr,
			Duration:  time.Since(start),
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var (
		waitErr   error
		timedOut  bool
		cancelled error
	)
	select {
	case waitErr = <-done:
	case <-ctx.Done():
		_ = killProcessGroup(cmd)
		waitErr = <-done
		cancelled = ctx.Err()
	case <-timer.C:
		timedOut = true
		// Try graceful shutdown
		_ = interruptProcessGroup(cmd)
		grace := time.NewTimer(time.Duration(shell.GracefulShutdownMs) * time.Millisecond)
		select {
		case waitErr = <-done:
		case <-grace.C:
			_ = killProcessGroup(cmd)
			waitErr = <-done
		}
		grace.Stop()
		// Descendants may ignore SIGINT; reap whatever is left of the group.
		_ = killProcessGroup(cmd)
	}

	exitCode := exitCodeOf(waitErr)
	if timedOut || cancelled != nil {
		exitCode = -1
	}

	out := &Outcome{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		ExitCode:  exitCode,
		TimedOut:  timedOut,
		Truncated: stdout.Truncated() || stderr.Truncated(),
		Cancelled: cancelled,
		Duration:  time.Since(start),
	}

	log.WithFields(logrus.Fields{
		"exit_code": out.ExitCode,
		"timed_out": out.TimedOut,
		"truncated": out.Truncated,
		"duration":  out.Duration,
	}).Debug("Shell command finished")

	return out
}

func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
