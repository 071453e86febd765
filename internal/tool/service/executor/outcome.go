package executor

import (
	"fmt"
	"strings"
	"time"
)

// NoOutputText is the observation for a command that printed nothing and succeeded.
const NoOutputText = "Command completed with no output."

// Outcome is the result of one Execute call. It is created once and never modified.
type Outcome struct {
	Stdout    string
	Stderr    string
	ExitCode  int // -1 when timed out, cancelled or never launched
	TimedOut  bool
	Truncated bool
	// LaunchErr is set when the interpreter could not be started.
	LaunchErr error
	// Cancelled holds the context error when the caller gave up first.
	Cancelled error
	Duration  time.Duration
}

// Render produces the observation text fed back to the model. Parts appear in
// a fixed order: stdout, stderr, a non-zero exit code, then a truncation note.
func (o *Outcome) Render(timeout time.Duration) string {
	switch {
	case o.TimedOut:
		return fmt.Sprintf("Error: command exceeded the time limit of %s", timeout)
	case o.LaunchErr != nil:
		return fmt.Sprintf("Error executing command: %v", o.LaunchErr)
	case o.Cancelled != nil:
		return fmt.Sprintf("Error: command cancelled: %v", o.Cancelled)
	}

	var parts []string
	if s := strings.TrimSpace(o.Stdout); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(o.Stderr); s != "" {
		parts = append(parts, "STDERR:\n"+s)
	}
	if o.ExitCode != 0 {
		parts = append(parts, fmt.Sprintf("Exit code: %d", o.ExitCode))
	}
	if o.Truncated {
		parts = append(parts, "[output truncated]")
	}

	if len(parts) == 0 {
		return NoOutputText
	}
	return strings.Join(parts, "\n")
}
