package toolmanager

import (
	"context"

	"github.com/Cyclone1070/shellagent/internal/tool"
)

// toolImpl defines the interface for individual tools.
// Request structs should implement fmt.Stringer for display.
type toolImpl interface {
	// Name returns the tool's identifier.
	Name() string

	// Declaration returns the tool's schema for the LLM.
	Declaration() tool.Declaration

	// Input returns a pointer to the input struct (e.g., &ShellRequest{}).
	Input() any

	// Execute runs the tool with typed input.
	// Errors are reserved for infrastructure failures such as cancellation.
	Execute(ctx context.Context, input any) (tool.Result, error)
}
