package ui

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

const defaultWrapWidth = 80

// GlamourRenderer renders markdown with glamour, caching one renderer per width.
type GlamourRenderer struct {
	mu    sync.Mutex
	terms map[int]*glamour.TermRenderer
}

func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{terms: make(map[int]*glamour.TermRenderer)}
}

// Render falls back to the raw text when glamour cannot be set up.
func (g *GlamourRenderer) Render(markdown string, width int) (string, error) {
	if width <= 0 {
		width = defaultWrapWidth
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	term, ok := g.terms[width]
	if !ok {
		var err error
		term, err = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return markdown, err
		}
		g.terms[width] = term
	}

	out, err := term.Render(markdown)
	if err != nil {
		return markdown, err
	}
	return out, nil
}

// renderAnswer never fails; a broken renderer degrades to plain text.
func renderAnswer(md MarkdownRenderer, answer string, width int) string {
	if md == nil {
		return answer
	}
	out, err := md.Render(answer, width)
	if err != nil {
		return answer
	}
	return out
}
