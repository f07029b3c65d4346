package review

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dshills/codewalk/internal/providers"
)

// fakeClient records every request and answers with canned replies.
type fakeClient struct {
	replies  []string
	err      error
	requests []providers.ChatRequest
}

func (f *fakeClient) Name() string { return "fake" }

func (f *fakeClient) Complete(_ context.Context, req providers.ChatRequest) (providers.ChatResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return providers.ChatResponse{}, f.err
	}
	if len(f.requests) > len(f.replies) {
		return providers.ChatResponse{}, errors.New("fakeClient: no reply left")
	}
	return providers.ChatResponse{Content: f.replies[len(f.requests)-1], TokensUsed: 7}, nil
}

// writeFiles creates name->content files under a fresh temp dir and returns it.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}
