package loop

import (
	"fmt"

	"github.com/Cyclone1070/shellagent/internal/provider"
)

// Kind classifies why a run failed.
type Kind string

const (
	KindModelUnavailable       Kind = "model_unavailable"
	KindModelError             Kind = "model_error"
	KindCancelled              Kind = "cancelled"
	KindUnsupportedTool        Kind = "unsupported_tool"
	KindIterationLimitExceeded Kind = "iteration_limit_exceeded"
	KindToolError              Kind = "tool_error"
)

// Result is a run that ended with a final answer.
type Result struct {
	Answer string
	// Iterations is the number of tool calls executed before the answer.
	Iterations   int
	Conversation []provider.Message
}

// Failure is a run that ended without a final answer. It carries the
// conversation up to the point of failure.
type Failure struct {
	Kind         Kind
	Detail       string
	Err          error
	Iterations   int
	Conversation []provider.Message
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Detail, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

func (f *Failure) Unwrap() error {
	return f.Err
}
