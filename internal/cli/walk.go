package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/dshills/codewalk/internal/config"
	"github.com/dshills/codewalk/internal/output"
	"github.com/dshills/codewalk/internal/providers"
	"github.com/dshills/codewalk/internal/review"
	"github.com/dshills/codewalk/internal/walker"
)

// missingKeyMessage is printed to stdout when no credential is configured.
const missingKeyMessage = "Error: " + config.APIKeyEnv + " environment variable not set."

func runWalk(ctx context.Context, cfg config.Config, env Env) int {
	logger := slog.New(slog.NewTextHandler(env.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	if !cfg.HasCredential() {
		fmt.Fprintln(env.Stdout, missingKeyMessage)
		return ExitConfigError
	}

	client, err := env.NewClient(cfg)
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return ExitRuntimeError
	}

	format := "text"
	if cfg.Render {
		format = "markdown"
	}
	writer, err := output.GetWriter(format, terminalWidth(env.Stdout))
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return ExitRuntimeError
	}

	logger.Debug("starting review",
		"root", cfg.RootDir,
		"model", cfg.Model,
		"temperature", cfg.Temperature,
		"extensions", cfg.Extensions,
		"exclude", cfg.Exclude,
	)

	session := &review.Session{
		Reviewer: &review.Invoker{
			Client:      client,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Redact:      cfg.Redact,
			Writer:      writer,
			Out:         env.Stdout,
			Logger:      logger,
		},
		Prompter: review.NewLinePrompter(env.Stdin, env.Stdout),
		Out:      env.Stdout,
	}

	files := walker.Walk(cfg.RootDir, walker.Options{
		Extensions: cfg.Extensions,
		Exclude:    cfg.Exclude,
		Logger:     logger,
	})

	res, err := session.Run(ctx, files)
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		if providers.IsAuthError(err) {
			return ExitAuthError
		}
		return ExitRuntimeError
	}

	logger.Debug("review finished", "reviewed", res.Reviewed, "stopped", res.Stopped)
	return ExitSuccess
}

// terminalWidth returns the column count of w when it is a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return output.DefaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return output.DefaultWidth
	}
	return width
}
