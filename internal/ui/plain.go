package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/Cyclone1070/shellagent/internal/tool"
	"github.com/Cyclone1070/shellagent/internal/ui/views"
	"github.com/Cyclone1070/shellagent/internal/workflow"
)

// PlainRenderer writes one line per event. It is used when stdout is not a
// terminal or the TUI is disabled.
type PlainRenderer struct {
	out      io.Writer
	markdown MarkdownRenderer // nil prints the answer verbatim
	width    int

	// pending holds assistant text until we know whether it is commentary
	// on a tool call or the final answer.
	pending string
	err     error
}

func NewPlainRenderer(out io.Writer, markdown MarkdownRenderer, width int) *PlainRenderer {
	return &PlainRenderer{out: out, markdown: markdown, width: width}
}

// Run drains events until the channel is closed. Write errors are reported
// after the channel is drained.
func (r *PlainRenderer) Run(_ context.Context, events <-chan workflow.Event) error {
	for ev := range events {
		r.handle(ev)
	}
	return r.err
}

func (r *PlainRenderer) handle(ev workflow.Event) {
	switch e := ev.(type) {
	case workflow.ThinkingEvent:
		r.println(views.DimStyle.Render(fmt.Sprintf("· step %d/%d", e.Iteration, e.Max)))

	case workflow.TextEvent:
		r.pending = e.Text

	case workflow.ToolStartEvent:
		r.flushCommentary()

	case workflow.ToolEndEvent:
		if d, ok := e.Display.(tool.ShellDisplay); ok {
			r.println(views.RenderCommand(d, true))
			return
		}
		r.println(views.RenderToolText(e.ToolName, e.Display))

	case workflow.DoneEvent:
		r.pending = ""
		r.println("")
		r.println(renderAnswer(r.markdown, e.Answer, r.width))

	case workflow.FailedEvent:
		r.flushCommentary()
		r.println(views.StatusFailedStyle.Render("✘ " + views.FailureText(e.Kind, e.Err)))
	}
}

func (r *PlainRenderer) flushCommentary() {
	if r.pending == "" {
		return
	}
	r.println(views.CommentaryStyle.Render(r.pending))
	r.pending = ""
}

func (r *PlainRenderer) println(s string) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintln(r.out, s)
}
