package views

import "github.com/charmbracelet/lipgloss"

var (
	StatusThinkingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	StatusExecutingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	StatusDoneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	StatusFailedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	StatusDefaultStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	CommandStyle    = lipgloss.NewStyle().Bold(true)
	DeniedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	DimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	CommentaryStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("250"))
)
