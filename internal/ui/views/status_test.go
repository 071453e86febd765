package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderStatus_Executing(t *testing.T) {
	result := RenderStatus(Status{
		Phase:   PhaseExecuting,
		Message: "$ ls -la",
		Spinner: "⣾",
	})

	assert.Contains(t, result, "$ ls -la")
	assert.Contains(t, result, "⣾")
}

func TestRenderStatus_Done(t *testing.T) {
	result := RenderStatus(Status{Phase: PhaseDone, Message: "Finished"})

	assert.Contains(t, result, "✔")
	assert.Contains(t, result, "Finished")
}

func TestRenderStatus_Thinking(t *testing.T) {
	result := RenderStatus(Status{Phase: PhaseThinking, DotCount: 2, Iteration: 3, Max: 40})

	assert.Contains(t, result, "Thinking..")
	assert.Contains(t, result, "[3/40]")
}

func TestRenderStatus_Failed(t *testing.T) {
	result := RenderStatus(Status{Phase: PhaseFailed, Message: "iteration limit exceeded"})

	assert.Contains(t, result, "✘")
	assert.Contains(t, result, "iteration limit exceeded")
}

func TestRenderStatus_DefaultReady(t *testing.T) {
	assert.Contains(t, RenderStatus(Status{}), "Ready")
}
