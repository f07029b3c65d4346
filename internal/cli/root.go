package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/codewalk/internal/config"
	"github.com/dshills/codewalk/internal/providers"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitConfigError  = 1
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
)

// ClientFactory builds the chat client for a loaded configuration.
type ClientFactory func(cfg config.Config) (providers.ChatCompleter, error)

// Env carries the process-level collaborators of a run.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Getenv reads the API credential.
	Getenv    func(string) string
	NewClient ClientFactory
}

// DefaultEnv wires the real terminal, environment, and OpenAI client.
func DefaultEnv() Env {
	return Env{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Getenv:    os.Getenv,
		NewClient: newOpenAIClient,
	}
}

func newOpenAIClient(cfg config.Config) (providers.ChatCompleter, error) {
	return providers.NewOpenAI(cfg.APIKey, cfg.BaseURL)
}

// Run executes the root command against the process and returns an exit code.
func Run() int {
	return Execute(os.Args[1:], DefaultEnv())
}

// Execute runs the command with args and returns an exit code.
func Execute(args []string, env Env) int {
	exitCode := ExitSuccess
	cmd := newRootCmd(env, &exitCode)
	cmd.SetArgs(expandMultiValue(args, multiValueFlags...))
	cmd.SetIn(env.Stdin)
	cmd.SetOut(env.Stdout)
	cmd.SetErr(env.Stderr)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}
	return exitCode
}

// rootFlags holds flags that are consumed directly rather than through
// config.Load.
type rootFlags struct {
	configFile string
	envFile    string
}

func newRootCmd(env Env, exitCode *int) *cobra.Command {
	var rf rootFlags

	cmd := &cobra.Command{
		Use:   "codewalk [root_dir]",
		Short: "Iterative AI-driven code review agent",
		Long: "codewalk walks a directory tree, sends each matching source file to an " +
			"OpenAI-compatible model for review, and asks whether to continue after every file.",
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			src := config.Source{
				RootDir:    root,
				Flags:      cmd.Flags(),
				ConfigFile: rf.configFile,
				EnvFile:    rf.envFile,
				Getenv:     env.Getenv,
			}
			// A missing credential ends the run before any config file is read.
			key, err := config.LookupAPIKey(src)
			if err != nil {
				return err
			}
			if key == "" {
				fmt.Fprintln(env.Stdout, missingKeyMessage)
				*exitCode = ExitConfigError
				return nil
			}

			cfg, err := config.Load(src)
			if err != nil {
				return err
			}
			*exitCode = runWalk(cmd.Context(), cfg, env)
			return nil
		},
	}
	cmd.SetVersionTemplate("codewalk version {{.Version}}\n")

	def := config.Default()
	f := cmd.Flags()
	f.String("model", def.Model, "Model to use for reviews")
	f.Float64("temperature", def.Temperature, "Sampling temperature for the model. Lower = more deterministic (0 is sent as 1e-45)")
	f.StringSlice("ext", def.Extensions, "File extensions to include in the review (--ext .py .js, repeated, or comma-separated)")
	f.StringSlice("exclude", nil, "Glob patterns to skip, matched against root-relative paths and file names")
	f.String("base-url", "", "OpenAI-compatible API base URL (default https://api.openai.com/v1)")
	f.Bool("redact", false, "Redact likely secrets before sending file contents")
	f.Bool("render", false, "Render review markdown for the terminal")
	f.String("log-level", def.LogLevel, "Log level (debug, info, warn, error)")
	f.StringVar(&rf.configFile, "config", "", "Config file path (default $XDG_CONFIG_HOME/codewalk/config.yaml)")
	f.StringVar(&rf.envFile, "env-file", "", "Dotenv file to read OPENAI_API_KEY from when it is not set")

	return cmd
}

// multiValueFlags take one or more values after a single occurrence.
var multiValueFlags = []string{"--ext"}

// expandMultiValue rewrites "--ext a b c" as "--ext a --ext b --ext c" so
// pflag binds every value to the flag. Values are consumed up to the next
// token starting with "-". The "--ext=a", repeated and comma-separated forms
// pass through unchanged, as does everything after a bare "--".
func expandMultiValue(args []string, flags ...string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(out, args[i:]...)
		}
		out = append(out, arg)
		if !slices.Contains(flags, arg) {
			continue
		}
		first := true
		for i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			if !first {
				out = append(out, arg)
			}
			out = append(out, args[i])
			first = false
		}
	}
	return out
}
