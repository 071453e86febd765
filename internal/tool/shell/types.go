package shell

import (
	"github.com/Cyclone1070/shellagent/internal/policy"
	"github.com/Cyclone1070/shellagent/internal/tool"
)

// ShellRequest is the argument object of execute_shell_command.
type ShellRequest struct {
	Command string `json:"command" mapstructure:"command"`
}

func (r *ShellRequest) String() string {
	return "$ " + r.Command
}

// ShellResult is the observation for one shell tool call.
type ShellResult struct {
	Command    string
	WorkingDir string
	Decision   policy.Decision
	// Content is the text fed back to the model.
	Content  string
	ExitCode int
	TimedOut bool
}

func (r *ShellResult) LLMContent() string {
	return r.Content
}

func (r *ShellResult) Display() tool.ToolDisplay {
	return tool.ShellDisplay{
		Command:       r.Command,
		WorkingDir:    r.WorkingDir,
		Output:        r.Content,
		ExitCode:      r.ExitCode,
		TimedOut:      r.TimedOut,
		DeniedPattern: r.Decision.Pattern,
	}
}
