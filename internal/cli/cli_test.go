package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/codewalk/internal/config"
	"github.com/dshills/codewalk/internal/providers"
)

type fakeClient struct {
	reply    string
	requests []providers.ChatRequest
}

func (f *fakeClient) Name() string { return "fake" }

func (f *fakeClient) Complete(_ context.Context, req providers.ChatRequest) (providers.ChatResponse, error) {
	f.requests = append(f.requests, req)
	return providers.ChatResponse{Content: f.reply}, nil
}

type harness struct {
	stdout    bytes.Buffer
	stderr    bytes.Buffer
	client    *fakeClient
	factories int
	gotCfg    config.Config
	env       map[string]string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return &harness{
		client: &fakeClient{reply: "\n  Looks good.  \n"},
		env:    map[string]string{config.APIKeyEnv: "sk-test"},
	}
}

func (h *harness) run(stdin string, args ...string) int {
	return Execute(args, Env{
		Stdin:  strings.NewReader(stdin),
		Stdout: &h.stdout,
		Stderr: &h.stderr,
		Getenv: func(k string) string { return h.env[k] },
		NewClient: func(cfg config.Config) (providers.ChatCompleter, error) {
			h.factories++
			h.gotCfg = cfg
			return h.client, nil
		},
	})
}

func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("// "+f+"\n"), 0o644))
	}
	return root
}

func TestRun_MissingCredential(t *testing.T) {
	h := newHarness(t)
	h.env = nil
	root := writeTree(t, "a.py")

	code := h.run("y\n", root)

	assert.Equal(t, ExitConfigError, code)
	assert.Equal(t, "Error: OPENAI_API_KEY environment variable not set.\n", h.stdout.String())
	assert.Zero(t, h.factories, "no client is built")
	assert.Empty(t, h.client.requests, "no remote call is attempted")
}

func TestRun_MissingCredentialBeforeConfigFile(t *testing.T) {
	h := newHarness(t)
	h.env = nil
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	dir := filepath.Join(xdg, "codewalk")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("model: [unclosed\n"), 0o644))

	code := h.run("", writeTree(t, "a.py"))

	assert.Equal(t, ExitConfigError, code, "stderr: %s", h.stderr.String())
	assert.Equal(t, missingKeyMessage+"\n", h.stdout.String())
	assert.Zero(t, h.factories)

	h.stdout.Reset()
	code = h.run("", "--config", "/does/not/exist.yaml")
	assert.Equal(t, ExitConfigError, code)
	assert.Equal(t, missingKeyMessage+"\n", h.stdout.String())
}

func TestRun_StopsWhenUserDeclines(t *testing.T) {
	h := newHarness(t)
	root := writeTree(t, "a.py", "b.py", "c.py")

	code := h.run("y\nn\n", root)
	require.Equal(t, ExitSuccess, code, "stderr: %s", h.stderr.String())

	require.Len(t, h.client.requests, 2)
	assert.Contains(t, h.client.requests[0].Messages[1].Content, filepath.Join(root, "a.py"))
	assert.Contains(t, h.client.requests[1].Messages[1].Content, filepath.Join(root, "b.py"))

	out := h.stdout.String()
	sep := "\n" + strings.Repeat("-", 80) + "\n\n"
	want := sep + "Review for " + filepath.Join(root, "a.py") + ":\nLooks good.\n" + sep +
		"Continue to next file? (y/n): " +
		sep + "Review for " + filepath.Join(root, "b.py") + ":\nLooks good.\n" + sep +
		"Continue to next file? (y/n): " +
		"Stopping review.\n"
	assert.Equal(t, want, out)
	assert.NotContains(t, out, "c.py")
}

func TestRun_NoEligibleFiles(t *testing.T) {
	h := newHarness(t)
	root := writeTree(t, "README.md", "docs/notes.txt")

	code := h.run("", root)

	assert.Equal(t, ExitSuccess, code)
	assert.Empty(t, h.stdout.String(), "no review output and no prompts")
	assert.Empty(t, h.client.requests)
}

func TestRun_FlagsReachRequest(t *testing.T) {
	h := newHarness(t)
	root := writeTree(t, "main.go", "app.py", "vendor/dep.go")

	code := h.run("y\n", root,
		"--model", "gpt-4o",
		"--temperature", "0.7",
		"--ext", ".go",
		"--exclude", "vendor/**",
	)
	require.Equal(t, ExitSuccess, code, "stderr: %s", h.stderr.String())

	require.Len(t, h.client.requests, 1)
	req := h.client.requests[0]
	assert.Equal(t, "gpt-4o", req.Model)
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)
	assert.Contains(t, req.Messages[1].Content, filepath.Join(root, "main.go"))
	assert.Equal(t, "sk-test", h.gotCfg.APIKey)
}

func TestRun_ExtTakesSeveralValues(t *testing.T) {
	h := newHarness(t)
	t.Chdir(writeTree(t, "a.py", "b.js", "c.go"))

	code := h.run("y\ny\n", "--ext", ".py", ".js")
	require.Equal(t, ExitSuccess, code, "stderr: %s", h.stderr.String())

	assert.Equal(t, ".", h.gotCfg.RootDir)
	assert.Equal(t, []string{".py", ".js"}, h.gotCfg.Extensions)
	require.Len(t, h.client.requests, 2)
	out := h.stdout.String()
	assert.Contains(t, out, "Review for ."+string(filepath.Separator)+"a.py:\n")
	assert.Contains(t, out, "Review for ."+string(filepath.Separator)+"b.js:\n")
	assert.NotContains(t, out, "c.go")
}

func TestRun_ExtFollowedByRootFlag(t *testing.T) {
	h := newHarness(t)
	root := writeTree(t, "a.py", "b.js", "c.go")

	code := h.run("y\ny\n", root, "--ext", ".py", ".js", "--model", "m")
	require.Equal(t, ExitSuccess, code, "stderr: %s", h.stderr.String())

	assert.Equal(t, root, h.gotCfg.RootDir)
	assert.Equal(t, []string{".py", ".js"}, h.gotCfg.Extensions)
	assert.Equal(t, "m", h.gotCfg.Model)
	assert.Len(t, h.client.requests, 2)
}

func TestExpandMultiValue(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"several values", []string{"--ext", ".py", ".js"}, []string{"--ext", ".py", "--ext", ".js"}},
		{"stops at next flag", []string{"--ext", ".py", ".js", "--render", "dir"}, []string{"--ext", ".py", "--ext", ".js", "--render", "dir"}},
		{"root before flag", []string{"dir", "--ext", ".go"}, []string{"dir", "--ext", ".go"}},
		{"equals form", []string{"--ext=.py,.js", "dir"}, []string{"--ext=.py,.js", "dir"}},
		{"repeated", []string{"--ext", ".py", "--ext", ".js"}, []string{"--ext", ".py", "--ext", ".js"}},
		{"no value", []string{"--ext"}, []string{"--ext"}},
		{"after terminator", []string{"--", "--ext", ".py", ".js"}, []string{"--", "--ext", ".py", ".js"}},
		{"other flags untouched", []string{"--exclude", "a", "b"}, []string{"--exclude", "a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandMultiValue(tt.args, multiValueFlags...))
		})
	}
}

func TestRun_TemperatureHelpNamesZeroValue(t *testing.T) {
	h := newHarness(t)
	code := h.run("", "--help")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, h.stdout.String(), "0 is sent as 1e-45")
}

func TestRun_DefaultRootIsCurrentDirectory(t *testing.T) {
	h := newHarness(t)
	root := writeTree(t, "only.go")
	t.Chdir(root)

	code := h.run("n\n")
	require.Equal(t, ExitSuccess, code)

	require.Len(t, h.client.requests, 1)
	assert.Contains(t, h.stdout.String(), "Review for ."+string(filepath.Separator)+"only.go:\n")
}

func TestRun_Render(t *testing.T) {
	h := newHarness(t)
	h.client.reply = "## Findings\n\n- none"
	root := writeTree(t, "a.go")

	code := h.run("n\n", root, "--render")
	require.Equal(t, ExitSuccess, code, "stderr: %s", h.stderr.String())
	assert.Contains(t, h.stdout.String(), "Findings")
	assert.Contains(t, h.stdout.String(), "Stopping review.")
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"too many args", []string{"a", "b"}},
		{"unknown flag", []string{"--nope"}},
		{"bad temperature", []string{"--temperature", "hot"}},
		{"temperature out of range", []string{"--temperature", "3"}},
		{"bad log level", []string{"--log-level", "loud"}},
		{"missing config file", []string{"--config", "/does/not/exist.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			code := h.run("", tt.args...)
			assert.Equal(t, ExitUsageError, code)
			assert.Empty(t, h.client.requests)
			assert.NotEmpty(t, h.stderr.String())
		})
	}
}

func TestRun_Version(t *testing.T) {
	h := newHarness(t)
	code := h.run("", "--version")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "codewalk version "+version+"\n", h.stdout.String())
}

// openAIServer answers every chat completion with status and body.
func openAIServer(t *testing.T, status int, body any) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

// runWithOpenAI drives the real OpenAI client factory against server.
func runWithOpenAI(t *testing.T, server *httptest.Server, stdin string, root string) (int, string, string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	code := Execute([]string{root, "--base-url", server.URL + "/v1"}, Env{
		Stdin:     strings.NewReader(stdin),
		Stdout:    &stdout,
		Stderr:    &stderr,
		Getenv:    func(k string) string { return map[string]string{config.APIKeyEnv: "sk-test"}[k] },
		NewClient: newOpenAIClient,
	})
	return code, stdout.String(), stderr.String()
}

func TestRun_OpenAIEndToEnd(t *testing.T) {
	server, calls := openAIServer(t, http.StatusOK, map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": "  Solid.\n"}},
		},
	})
	root := writeTree(t, "a.go", "b.go")

	code, stdout, stderr := runWithOpenAI(t, server, "y\ny\n", root)
	require.Equal(t, ExitSuccess, code, "stderr: %s", stderr)
	assert.Equal(t, 2, *calls)
	assert.Equal(t, 2, strings.Count(stdout, ":\nSolid.\n"))
	assert.NotContains(t, stdout, "Stopping review.")
}

func TestRun_AuthErrorExitCode(t *testing.T) {
	server, calls := openAIServer(t, http.StatusUnauthorized, map[string]any{
		"error": map[string]any{"message": "Incorrect API key provided", "type": "invalid_request_error"},
	})
	root := writeTree(t, "a.go", "b.go")

	code, stdout, stderr := runWithOpenAI(t, server, "y\n", root)
	assert.Equal(t, ExitAuthError, code)
	assert.Equal(t, 1, *calls, "the run ends at the first failure")
	assert.NotContains(t, stdout, "Review for")
	assert.Contains(t, stderr, "Error:")
}

func TestRun_RemoteFailureKeepsEarlierOutput(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if calls == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"message":"model overloaded","type":"server_error"}}`))
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"first"}}]}`))
	}))
	t.Cleanup(server.Close)
	root := writeTree(t, "a.go", "b.go", "c.go")

	code, stdout, stderr := runWithOpenAI(t, server, "y\ny\ny\n", root)
	assert.Equal(t, ExitRuntimeError, code)
	assert.Equal(t, 2, calls, "no retries")
	assert.Contains(t, stdout, "Review for "+filepath.Join(root, "a.go")+":\nfirst\n")
	assert.Contains(t, stderr, "model overloaded")
}
