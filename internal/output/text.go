package output

import (
	"fmt"
	"io"
	"strings"
)

// TextWriter prints the review text exactly as received.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, r Review) error {
	ew := &errWriter{w: w}
	writeFramed(ew, r.Path, r.Text)
	return ew.err
}

// writeFramed prints a separator block, the header, the body, and the
// separator block again. Each separator block is a blank line, the dashes,
// and two newlines.
func writeFramed(ew *errWriter, path, body string) {
	sep := "\n" + strings.Repeat("-", SeparatorWidth) + "\n"
	ew.println(sep)
	ew.printf("Review for %s:\n", path)
	ew.println(body)
	ew.println(sep)
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
