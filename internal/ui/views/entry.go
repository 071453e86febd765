package views

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/shellagent/internal/tool"
)

// maxPreviewLines bounds how much command output the log shows per entry.
const maxPreviewLines = 8

// RenderCommand renders a finished shell command as a log entry: a header
// line with the outcome, then an indented preview of the observation.
func RenderCommand(d tool.ShellDisplay, verbose bool) string {
	var header string
	switch {
	case d.Denied():
		header = DeniedStyle.Render(fmt.Sprintf("⊘ %s  (denied: %q)", d.Command, d.DeniedPattern))
	case d.TimedOut:
		header = StatusFailedStyle.Render("⏱ "+d.Command) + DimStyle.Render("  timed out")
	case d.ExitCode == 0:
		header = StatusDoneStyle.Render("✔ ") + CommandStyle.Render(d.Command)
	default:
		header = StatusFailedStyle.Render("✘ ") + CommandStyle.Render(d.Command) +
			DimStyle.Render(fmt.Sprintf("  exit %d", d.ExitCode))
	}

	if !verbose || d.Denied() {
		return header
	}

	preview := Preview(d.Output, maxPreviewLines)
	if preview == "" {
		return header
	}
	return header + "\n" + DimStyle.Render(preview)
}

// RenderToolText renders the display of a non-shell tool outcome.
func RenderToolText(name string, display tool.ToolDisplay) string {
	switch d := display.(type) {
	case tool.ShellDisplay:
		return RenderCommand(d, false)
	case tool.StringDisplay:
		return DimStyle.Render(fmt.Sprintf("%s: %s", name, string(d)))
	default:
		return DimStyle.Render(name)
	}
}

// Preview indents the first n lines of text and notes how many were cut.
func Preview(text string, n int) string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	extra := 0
	if len(lines) > n {
		extra = len(lines) - n
		lines = lines[:n]
	}

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("    ")
		b.WriteString(line)
	}
	if extra > 0 {
		fmt.Fprintf(&b, "\n    … %d more lines", extra)
	}
	return b.String()
}

// FailureText describes a failed run, prefixing the kind unless the error
// already starts with it.
func FailureText(kind string, err error) string {
	if err == nil {
		return kind
	}
	msg := err.Error()
	if kind == "" || strings.HasPrefix(msg, kind) {
		return msg
	}
	return kind + ": " + msg
}
