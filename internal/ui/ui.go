package ui

import (
	"context"
	"errors"

	"github.com/Cyclone1070/shellagent/internal/workflow"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrInterrupted is returned by TeaRenderer.Run when the user pressed Ctrl+C.
// The terminal is in raw mode while the program runs, so no SIGINT arrives
// and the caller has to cancel the run itself.
var ErrInterrupted = errors.New("interrupted by user")

// SpinnerFactory builds the spinner shown while thinking or executing.
type SpinnerFactory func() spinner.Model

// DefaultSpinner is the dot spinner.
func DefaultSpinner() spinner.Model {
	return spinner.New(spinner.WithSpinner(spinner.Dot))
}

// TeaRenderer shows a live status line and prints a log of executed commands
// above it. The final answer is rendered as markdown.
type TeaRenderer struct {
	markdown       MarkdownRenderer
	spinnerFactory SpinnerFactory
	options        []tea.ProgramOption
}

func NewTeaRenderer(markdown MarkdownRenderer, spinnerFactory SpinnerFactory, options ...tea.ProgramOption) *TeaRenderer {
	if spinnerFactory == nil {
		spinnerFactory = DefaultSpinner
	}
	return &TeaRenderer{
		markdown:       markdown,
		spinnerFactory: spinnerFactory,
		options:        options,
	}
}

// Run blocks until the run finishes, the channel closes, ctx is cancelled or
// the user interrupts. It does not drain events left after it returns.
func (r *TeaRenderer) Run(ctx context.Context, events <-chan workflow.Event) error {
	m := newModel(events, r.markdown, r.spinnerFactory())

	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, r.options...)
	p := tea.NewProgram(m, opts...)

	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	if fm, ok := final.(model); ok && fm.interrupted {
		return ErrInterrupted
	}
	return nil
}
