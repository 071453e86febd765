package shell

import (
	"context"
	"fmt"
	"time"

	"github.com/Cyclone1070/shellagent/internal/config"
	"github.com/Cyclone1070/shellagent/internal/tool"
	"github.com/sirupsen/logrus"
)

// ToolName is the name the model uses to request a command.
const ToolName = "execute_shell_command"

// ShellTool validates commands against a policy and runs the allowed ones.
type ShellTool struct {
	policy   commandPolicy
	executor commandExecutor
	workDir  string
	timeout  time.Duration
}

// NewShellTool creates a new ShellTool with injected dependencies.
// An empty workDir runs commands in the process working directory.
func NewShellTool(policy commandPolicy, executor commandExecutor, cfg *config.Config, workDir string) *ShellTool {
	if policy == nil {
		panic("policy is required")
	}
	if executor == nil {
		panic("executor is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	return &ShellTool{
		policy:   policy,
		executor: executor,
		workDir:  workDir,
		timeout:  time.Duration(cfg.Shell.TimeoutSeconds) * time.Second,
	}
}

func (t *ShellTool) Name() string {
	return ToolName
}

func (t *ShellTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        ToolName,
		Description: fmt.Sprintf("Execute a shell command in the working directory and return its output. Commands are killed after %s. Commands matching the safety denylist are refused.", t.timeout),
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"command": {
					Type:        tool.TypeString,
					Description: "The shell command to execute",
				},
			},
			Required: []string{"command"},
		},
	}
}

func (t *ShellTool) Input() any {
	return &ShellRequest{}
}

// Execute evaluates the command and runs it when allowed. Denials, timeouts
// and launch failures come back as result text; an error is returned only
// when ctx is done.
func (t *ShellTool) Execute(ctx context.Context, input any) (tool.Result, error) {
	req, ok := input.(*ShellRequest)
	if !ok {
		return nil, fmt.Errorf("unexpected input type %T", input)
	}

	res := &ShellResult{
		Command:    req.Command,
		WorkingDir: t.workDir,
	}

	res.Decision = t.policy.Evaluate(req.Command)
	if !res.Decision.Allowed {
		logrus.WithFields(logrus.Fields{
			"pattern": res.Decision.Pattern,
		}).Info("Command denied by policy")
		res.Content = "Error: " + res.Decision.String()
		res.ExitCode = -1
		return res, nil
	}

	out := t.executor.Execute(ctx, req.Command, t.workDir, t.timeout)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Content = out.Render(t.timeout)
	res.ExitCode = out.ExitCode
	res.TimedOut = out.TimedOut
	return res, nil
}
