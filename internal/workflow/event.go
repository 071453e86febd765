package workflow

import "github.com/Cyclone1070/shellagent/internal/tool"

// Event is the interface for all workflow events.
// UI handles events via type switch.
type Event interface {
	isEvent()
}

// TextEvent is emitted when the LLM produces text output.
type TextEvent struct {
	Text string
}

func (TextEvent) isEvent() {}

// ThinkingEvent is emitted before each model call.
type ThinkingEvent struct {
	Iteration int // 1-based
	Max       int
}

func (ThinkingEvent) isEvent() {}

// DoneEvent is emitted once when the run ends with a final answer.
type DoneEvent struct {
	Answer     string
	Iterations int
}

func (DoneEvent) isEvent() {}

// FailedEvent is emitted once when the run ends without a final answer.
type FailedEvent struct {
	Kind string
	Err  error
}

func (FailedEvent) isEvent() {}

// ToolStartEvent is emitted when a tool execution begins.
type ToolStartEvent struct {
	ToolName       string
	RequestDisplay string // e.g., "$ ls -la"
}

func (ToolStartEvent) isEvent() {}

// ToolEndEvent is emitted when a tool completes.
type ToolEndEvent struct {
	ToolName string
	Display  tool.ToolDisplay
}

func (ToolEndEvent) isEvent() {}
