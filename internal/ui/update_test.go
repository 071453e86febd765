package ui

import (
	"errors"
	"testing"

	"github.com/Cyclone1070/shellagent/internal/tool"
	"github.com/Cyclone1070/shellagent/internal/ui/views"
	"github.com/Cyclone1070/shellagent/internal/workflow"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func newTestModel() model {
	return newModel(make(chan workflow.Event), &MockMarkdownRenderer{}, spinner.New())
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T, want model", next)
	}
	return nm, cmd
}

func TestUpdate_ThinkingSetsProgress(t *testing.T) {
	m, cmd := update(t, newTestModel(), eventMsg{workflow.ThinkingEvent{Iteration: 2, Max: 40}})

	assert.Equal(t, views.PhaseThinking, m.status.Phase)
	assert.Equal(t, 2, m.status.Iteration)
	assert.Equal(t, 40, m.status.Max)
	assert.NotNil(t, cmd, "keeps listening for events")
	assert.Contains(t, m.View(), "[2/40]")
}

func TestUpdate_ToolStartShowsCommandAndFlushesCommentary(t *testing.T) {
	m, _ := update(t, newTestModel(), eventMsg{workflow.TextEvent{Text: "checking"}})
	assert.Equal(t, "checking", m.pending)

	m, cmd := update(t, m, eventMsg{workflow.ToolStartEvent{ToolName: "execute_shell_command", RequestDisplay: "$ ls"}})

	assert.Equal(t, views.PhaseExecuting, m.status.Phase)
	assert.Equal(t, "$ ls", m.status.Message)
	assert.Empty(t, m.pending)
	assert.NotNil(t, cmd)
}

func TestUpdate_ToolStartWithoutDisplayUsesToolName(t *testing.T) {
	m, _ := update(t, newTestModel(), eventMsg{workflow.ToolStartEvent{ToolName: "mystery"}})
	assert.Equal(t, "mystery", m.status.Message)
}

func TestUpdate_ToolEnd(t *testing.T) {
	m, cmd := update(t, newTestModel(), eventMsg{workflow.ToolEndEvent{
		ToolName: "execute_shell_command",
		Display:  tool.ShellDisplay{Command: "false", ExitCode: 1},
	}})

	assert.False(t, m.finished)
	assert.NotNil(t, cmd)
}

func TestUpdate_DoneFinishes(t *testing.T) {
	m, _ := update(t, newTestModel(), eventMsg{workflow.TextEvent{Text: "all good"}})
	m, cmd := update(t, m, eventMsg{workflow.DoneEvent{Answer: "all good", Iterations: 1}})

	assert.True(t, m.finished)
	assert.Equal(t, views.PhaseDone, m.status.Phase)
	assert.Equal(t, "Done after 1 command", m.status.Message)
	assert.Empty(t, m.pending)
	assert.NotNil(t, cmd)
}

func TestUpdate_FailedFinishes(t *testing.T) {
	m, cmd := update(t, newTestModel(), eventMsg{workflow.FailedEvent{
		Kind: "model_unavailable",
		Err:  errors.New("connection refused"),
	}})

	assert.True(t, m.finished)
	assert.Equal(t, views.PhaseFailed, m.status.Phase)
	assert.Contains(t, m.status.Message, "connection refused")
	assert.NotNil(t, cmd)
}

func TestUpdate_CtrlCInterrupts(t *testing.T) {
	m, cmd := update(t, newTestModel(), tea.KeyMsg{Type: tea.KeyCtrlC})

	assert.True(t, m.interrupted)
	assert.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestUpdate_OtherKeysIgnored(t *testing.T) {
	m, cmd := update(t, newTestModel(), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	assert.False(t, m.interrupted)
	assert.Nil(t, cmd)
}

func TestUpdate_EventsClosedQuits(t *testing.T) {
	_, cmd := update(t, newTestModel(), eventsClosedMsg{})
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWaitForEvent(t *testing.T) {
	ch := make(chan workflow.Event, 1)
	ch <- workflow.ThinkingEvent{Iteration: 1, Max: 1}
	close(ch)

	cmd := waitForEvent(ch)
	assert.Equal(t, eventMsg{workflow.ThinkingEvent{Iteration: 1, Max: 1}}, cmd())
	assert.Equal(t, eventsClosedMsg{}, cmd())
}

func TestWindowSize(t *testing.T) {
	m, _ := update(t, newTestModel(), tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
}
