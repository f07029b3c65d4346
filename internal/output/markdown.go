package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownWriter renders the review text as styled terminal markdown inside
// the same frame the text writer uses.
type MarkdownWriter struct {
	renderer *glamour.TermRenderer
}

// NewMarkdownWriter creates a writer that wraps rendered text at width
// columns. A non-positive width selects DefaultWidth.
func NewMarkdownWriter(width int) (*MarkdownWriter, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return &MarkdownWriter{renderer: r}, nil
}

func (m *MarkdownWriter) Write(w io.Writer, r Review) error {
	body := r.Text
	// Fall back to the raw text rather than lose the review.
	if rendered, err := m.renderer.Render(r.Text); err == nil {
		body = strings.Trim(rendered, "\n")
	}
	ew := &errWriter{w: w}
	writeFramed(ew, r.Path, body)
	return ew.err
}
