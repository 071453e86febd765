package ui

import (
	"context"

	"github.com/Cyclone1070/shellagent/internal/workflow"
)

// Renderer consumes workflow events until the channel is closed or ctx is
// cancelled. Implementations must keep draining the channel so the agent
// loop never blocks on a send.
type Renderer interface {
	Run(ctx context.Context, events <-chan workflow.Event) error
}

// MarkdownRenderer turns the final answer into terminal output.
type MarkdownRenderer interface {
	Render(markdown string, width int) (string, error)
}
