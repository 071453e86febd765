package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Phases of the status line.
const (
	PhaseReady     = "ready"
	PhaseThinking  = "thinking"
	PhaseExecuting = "executing"
	PhaseDone      = "done"
	PhaseFailed    = "failed"
)

// Status is everything the status line needs.
type Status struct {
	Phase     string
	Message   string
	Spinner   string // current spinner frame
	DotCount  int
	Iteration int
	Max       int
}

// RenderStatus renders the status bar
func RenderStatus(s Status) string {
	var icon string
	var style lipgloss.Style

	switch s.Phase {
	case PhaseExecuting:
		icon = s.Spinner
		style = StatusExecutingStyle
	case PhaseDone:
		icon = "✔"
		style = StatusDoneStyle
	case PhaseFailed:
		icon = "✘"
		style = StatusFailedStyle
	case PhaseThinking:
		icon = s.Spinner
		style = StatusThinkingStyle
		dots := strings.Repeat(".", s.DotCount)
		return withProgress(style.Render(fmt.Sprintf("%s Thinking%s", icon, dots)), s)
	default:
		style = StatusDefaultStyle
	}

	status := "Ready"
	if s.Message != "" {
		status = fmt.Sprintf("%s %s", icon, s.Message)
	} else if s.Phase != PhaseReady && s.Phase != "" {
		status = icon
	}

	return withProgress(style.Render(status), s)
}

func withProgress(left string, s Status) string {
	if s.Max == 0 {
		return left
	}
	right := DimStyle.Render(fmt.Sprintf("[%d/%d]", s.Iteration, s.Max))
	return fmt.Sprintf("%s  %s", left, right)
}
