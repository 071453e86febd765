package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Cyclone1070/shellagent/internal/tool"
	"github.com/Cyclone1070/shellagent/internal/ui/views"
	"github.com/Cyclone1070/shellagent/internal/workflow"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// model is the bubbletea model behind TeaRenderer.
type model struct {
	events   <-chan workflow.Event
	markdown MarkdownRenderer
	spinner  spinner.Model

	status  views.Status
	width   int
	pending string // assistant text not yet known to be commentary

	interrupted bool
	finished    bool
}

func newModel(events <-chan workflow.Event, markdown MarkdownRenderer, s spinner.Model) model {
	return model{
		events:   events,
		markdown: markdown,
		spinner:  s,
		status:   views.Status{Phase: views.PhaseReady},
	}
}

// Internal messages
type tickMsg time.Time
type eventMsg struct{ event workflow.Event }
type eventsClosedMsg struct{}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tick(),
		waitForEvent(m.events),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.interrupted = true
			m.status.Phase = views.PhaseFailed
			m.status.Message = "Interrupted"
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tickMsg:
		m.status.DotCount = (m.status.DotCount + 1) % 4
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		return m.handleEvent(msg.event)

	case eventsClosedMsg:
		return m, tea.Quit
	}

	return m, nil
}

func (m model) handleEvent(ev workflow.Event) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch e := ev.(type) {
	case workflow.ThinkingEvent:
		m.status.Phase = views.PhaseThinking
		m.status.Message = ""
		m.status.Iteration = e.Iteration
		m.status.Max = e.Max

	case workflow.TextEvent:
		m.pending = e.Text

	case workflow.ToolStartEvent:
		cmds = append(cmds, m.flushCommentary()...)
		m.status.Phase = views.PhaseExecuting
		m.status.Message = e.RequestDisplay
		if m.status.Message == "" {
			m.status.Message = e.ToolName
		}

	case workflow.ToolEndEvent:
		line := views.RenderToolText(e.ToolName, e.Display)
		if d, ok := e.Display.(tool.ShellDisplay); ok {
			line = views.RenderCommand(d, false)
		}
		cmds = append(cmds, tea.Println(line))

	case workflow.DoneEvent:
		m.pending = ""
		m.finished = true
		m.status.Phase = views.PhaseDone
		m.status.Message = fmt.Sprintf("Done after %d %s", e.Iterations, plural(e.Iterations, "command"))
		answer := strings.TrimRight(renderAnswer(m.markdown, e.Answer, m.width), "\n")
		return m, tea.Sequence(tea.Println(answer), tea.Quit)

	case workflow.FailedEvent:
		cmds = append(cmds, m.flushCommentary()...)
		m.finished = true
		m.status.Phase = views.PhaseFailed
		m.status.Message = views.FailureText(e.Kind, e.Err)
		cmds = append(cmds, tea.Quit)
		return m, tea.Sequence(cmds...)
	}

	cmds = append(cmds, waitForEvent(m.events))
	return m, tea.Sequence(cmds...)
}

// flushCommentary prints pending assistant text. It clears m.pending, so it
// must be called on the model that will be returned.
func (m *model) flushCommentary() []tea.Cmd {
	if m.pending == "" {
		return nil
	}
	text := m.pending
	m.pending = ""
	return []tea.Cmd{tea.Println(views.CommentaryStyle.Render(text))}
}

func (m model) View() string {
	s := m.status
	s.Spinner = m.spinner.View()
	return views.RenderStatus(s) + "\n"
}

func waitForEvent(ch <-chan workflow.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{event: ev}
	}
}

func tick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
