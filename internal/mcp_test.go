package internal

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mcpFixture struct {
	server   *MCPServer
	store    *fakeStore
	model    *fakeGenerator
	outDir   string
	seen     []Overrides
	appCalls int
}

func newMCPFixture(t *testing.T) *mcpFixture {
	t.Helper()
	log, _ := newTestLogger()
	f := &mcpFixture{
		store:  newFakeStore(),
		model:  &fakeGenerator{transcript: "Слава Україні"},
		outDir: t.TempDir(),
	}

	resolve := func(ctx context.Context, o Overrides) (*Config, error) {
		f.seen = append(f.seen, o)
		return ResolveConfig(ctx, &Config{OutputDir: f.outDir}, o, StaticEnvironment{ProjectID: "myproj"})
	}
	newApp := func(ctx context.Context, config *Config) (*App, error) {
		f.appCalls++
		return NewApp(config, f.store, f.model, WithUI(NewSilentUI(log)), WithStdout(io.Discard)), nil
	}

	f.server = NewMCPServer(resolve, newApp, log, "test")
	return f
}

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult, i int) string {
	t.Helper()
	require.Greater(t, len(result.Content), i)
	text, ok := result.Content[i].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestMCPPlan(t *testing.T) {
	f := newMCPFixture(t)

	result, err := f.server.handlePlan(context.Background(), toolRequest("plan_transcription", map[string]any{
		"path": "/videos/video.mp4",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var plan Plan
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result, 0)), &plan))
	assert.Equal(t, "myproj-gemini-video-transcribe", plan.Bucket)
	assert.Equal(t, "inputs/video.mp4", plan.InputObject)
	assert.Equal(t, "outputs/video.txt", plan.OutputObject)
	assert.Equal(t, filepath.Join(f.outDir, "video.txt"), plan.LocalPath)
	assert.Zero(t, f.store.networkCalls())
}

func TestMCPPlanRequiresPath(t *testing.T) {
	f := newMCPFixture(t)

	result, err := f.server.handlePlan(context.Background(), toolRequest("plan_transcription", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestMCPTranscribe(t *testing.T) {
	f := newMCPFixture(t)
	input := filepath.Join(t.TempDir(), "video.mp4")
	require.NoError(t, os.WriteFile(input, []byte("data"), 0644))

	result, err := f.server.handleTranscribe(context.Background(), toolRequest("transcribe_video", map[string]any{
		"path":    input,
		"preview": true,
		"bucket":  "shared-bucket",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Equal(t, "Слава Україні", resultText(t, result, 0))
	assert.Contains(t, resultText(t, result, 1), "gs://shared-bucket/outputs/video.txt")

	require.Len(t, f.seen, 1)
	assert.True(t, f.seen[0].Preview)
	assert.Equal(t, PreviewModel, f.model.requests[0].Model)

	remote, ok := f.store.object("shared-bucket", "outputs/video.txt")
	require.True(t, ok)
	assert.Equal(t, "Слава Україні", remote)
}

func TestMCPTranscribeMissingFile(t *testing.T) {
	f := newMCPFixture(t)

	result, err := f.server.handleTranscribe(context.Background(), toolRequest("transcribe_video", map[string]any{
		"path": filepath.Join(t.TempDir(), "missing.mp4"),
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Zero(t, f.appCalls)
	assert.Empty(t, f.seen)
}

func TestMCPTranscribeFailure(t *testing.T) {
	f := newMCPFixture(t)
	f.model.transcript = ""
	input := filepath.Join(t.TempDir(), "video.mp4")
	require.NoError(t, os.WriteFile(input, []byte("data"), 0644))

	result, err := f.server.handleTranscribe(context.Background(), toolRequest("transcribe_video", map[string]any{
		"path": input,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Zero(t, f.store.writeCalls)
}

func TestMCPConfigFailure(t *testing.T) {
	log, _ := newTestLogger()
	server := NewMCPServer(
		func(context.Context, Overrides) (*Config, error) {
			return nil, ConfigError("resolving project", errors.New("Google Cloud project ID needed"), "")
		},
		func(context.Context, *Config) (*App, error) {
			t.Fatal("app must not be created")
			return nil, nil
		},
		log, "test")

	result, err := server.handlePlan(context.Background(), toolRequest("plan_transcription", map[string]any{"path": "a.mp4"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestMCPHTTPStopsOnCancel(t *testing.T) {
	log, _ := newTestLogger()
	server := NewMCPServer(nil, nil, log, "test")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.serveHTTP(ctx, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("HTTP server kept running after the context was cancelled")
	}
}

func TestMCPHTTPListenError(t *testing.T) {
	log, _ := newTestLogger()
	server := NewMCPServer(nil, nil, log, "test")

	err := server.serveHTTP(context.Background(), "127.0.0.1:-1")
	assert.Error(t, err)
}
