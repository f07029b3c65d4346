package output

import (
	"fmt"
	"io"
)

const (
	// SeparatorWidth is the number of dashes framing each review.
	SeparatorWidth = 80
	// DefaultWidth is the wrap width used when the terminal size is unknown.
	DefaultWidth = 80
)

// Review is one file's review, ready to print.
type Review struct {
	Path string
	Text string
}

// Writer writes a review in a specific format.
type Writer interface {
	Write(w io.Writer, r Review) error
}

// GetWriter returns a writer for the specified format. width is only used
// by the markdown writer.
func GetWriter(format string, width int) (Writer, error) {
	switch format {
	case "", "text":
		return &TextWriter{}, nil
	case "markdown":
		mw, err := NewMarkdownWriter(width)
		if err != nil {
			return nil, err
		}
		return mw, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
