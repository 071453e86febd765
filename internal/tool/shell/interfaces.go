package shell

import (
	"context"
	"time"

	"github.com/Cyclone1070/shellagent/internal/policy"
	"github.com/Cyclone1070/shellagent/internal/tool/service/executor"
)

// commandPolicy decides whether a command may run.
type commandPolicy interface {
	Evaluate(command string) policy.Decision
}

// commandExecutor runs an allowed command.
type commandExecutor interface {
	Execute(ctx context.Context, command, dir string, timeout time.Duration) *executor.Outcome
}
