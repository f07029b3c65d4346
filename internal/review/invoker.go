package review

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dshills/codewalk/internal/output"
	"github.com/dshills/codewalk/internal/providers"
	"github.com/dshills/codewalk/internal/redact"
)

// Invoker sends one file at a time to the model and prints the reply.
type Invoker struct {
	Client      providers.ChatCompleter
	Model       string
	Temperature float64
	// Redact scrubs likely secrets from the content before it is sent.
	Redact bool
	Writer output.Writer
	Out    io.Writer
	Logger *slog.Logger
}

// Review reads path, asks the model for a review, and writes the trimmed
// answer. A failed remote call is returned as is; the caller decides whether
// the run continues.
func (inv *Invoker) Review(ctx context.Context, path string) error {
	logger := inv.logger()

	content, err := ReadSource(path)
	if err != nil {
		return err
	}

	if inv.Redact {
		var rep redact.Report
		content, rep = redact.Secrets(content)
		if rep.Count > 0 {
			logger.Info("redacted secrets", "path", path, "count", rep.Count, "kinds", rep.Kinds)
		}
	}

	req := providers.ChatRequest{
		Model:       inv.Model,
		Messages:    Messages(path, content),
		Temperature: inv.Temperature,
	}
	logger.Debug("requesting review",
		"path", path,
		"provider", inv.Client.Name(),
		"model", inv.Model,
		"temperature", inv.Temperature,
		"bytes", len(content),
	)

	resp, err := inv.Client.Complete(ctx, req)
	if err != nil {
		return fmt.Errorf("reviewing %s: %w", path, err)
	}
	logger.Debug("review received", "path", path, "tokens", resp.TokensUsed)

	r := output.Review{Path: path, Text: strings.TrimSpace(resp.Content)}
	if err := inv.Writer.Write(inv.Out, r); err != nil {
		return fmt.Errorf("writing review: %w", err)
	}
	return nil
}

func (inv *Invoker) logger() *slog.Logger {
	if inv.Logger != nil {
		return inv.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
