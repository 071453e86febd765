package executor

import (
	"fmt"
)

// CommandError is returned when the interpreter process could not be started.
type CommandError struct {
	Cmd   string
	Cause error
	Stage string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Stage, e.Cmd, e.Cause)
}

func (e *CommandError) Unwrap() error {
	return e.Cause
}
