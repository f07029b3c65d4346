package review

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
)

const (
	// ContinuePrompt is shown after every reviewed file.
	ContinuePrompt = "Continue to next file? (y/n): "
	// StopMessage is printed when the user declines to continue.
	StopMessage = "Stopping review."
)

// FileReviewer reviews a single file.
type FileReviewer interface {
	Review(ctx context.Context, path string) error
}

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(question string) (bool, error)
}

// Result describes how a session ended.
type Result struct {
	Reviewed int
	// Stopped is true when the user ended the run before the files ran out.
	Stopped bool
}

// Session drives the interactive loop: review a file, ask whether to go on,
// and stop at the first answer that is not "y".
type Session struct {
	Reviewer FileReviewer
	Prompter Prompter
	Out      io.Writer
}

// Run reviews files in order until the sequence is exhausted, the user
// declines, or a review fails. Files after the stopping point are never
// touched.
func (s *Session) Run(ctx context.Context, files iter.Seq[string]) (Result, error) {
	var res Result
	for path := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := s.Reviewer.Review(ctx, path); err != nil {
			return res, err
		}
		res.Reviewed++

		ok, err := s.Prompter.Confirm(ContinuePrompt)
		if err != nil {
			return res, fmt.Errorf("reading answer: %w", err)
		}
		if !ok {
			if _, err := fmt.Fprintln(s.Out, StopMessage); err != nil {
				return res, err
			}
			res.Stopped = true
			return res, nil
		}
	}
	return res, nil
}

// LinePrompter reads one answer per line. It keeps a single buffered reader
// for the life of the session so no typed-ahead input is lost between
// questions.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter returns a prompter that writes questions to out and reads
// answers from in.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Confirm writes question and reports whether the answer, trimmed and case
// folded, is "y". End of input counts as "no".
func (p *LinePrompter) Confirm(question string) (bool, error) {
	if _, err := io.WriteString(p.out, question); err != nil {
		return false, err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(line), "y"), nil
}
