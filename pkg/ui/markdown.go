package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/canopy/pkg/debug"
)

// markdownRenderer renders item descriptions with glamour. The term
// renderer is rebuilt only when the wrap width changes.
type markdownRenderer struct {
	mu       sync.Mutex
	style    string
	width    int
	renderer *glamour.TermRenderer
}

func newMarkdownRenderer(style string) *markdownRenderer {
	return &markdownRenderer{style: style}
}

func (r *markdownRenderer) termRenderer(width int) *glamour.TermRenderer {
	if r.renderer != nil && r.width == width {
		return r.renderer
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if r.style == "" || r.style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(r.style))
	}
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		debug.Log("ui: glamour renderer (%s, %d): %v", r.style, width, err)
		return nil
	}
	r.renderer = tr
	r.width = width
	return tr
}

// Render returns text rendered as markdown wrapped at width, or text
// unchanged when rendering fails.
func (r *markdownRenderer) Render(text string, width int) string {
	if text == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tr := r.termRenderer(width)
	if tr == nil {
		return text
	}
	out, err := tr.Render(text)
	if err != nil {
		debug.Log("ui: rendering description: %v", err)
		return text
	}
	// Strip the blank margin lines glamour adds around the document
	return strings.Trim(out, "\n")
}
