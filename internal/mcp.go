package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// ConfigResolver turns per-call overrides into a resolved configuration
type ConfigResolver func(ctx context.Context, o Overrides) (*Config, error)

// AppFactory builds an App for a resolved configuration
type AppFactory func(ctx context.Context, config *Config) (*App, error)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	resolve   ConfigResolver
	newApp    AppFactory
	log       logrus.FieldLogger
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(resolve ConfigResolver, newApp AppFactory, log logrus.FieldLogger, version string) *MCPServer {
	mcpServer := server.NewMCPServer(
		"gemscribe-server",
		version,
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		resolve:   resolve,
		newApp:    newApp,
		log:       log,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("plan_transcription",
		mcp.WithDescription("Show where a video would be uploaded and where its transcript would be written (bucket, object names, local file). Makes no network calls and costs nothing."),
		mcp.WithString("path",
			mcp.Description("Path to a local video file"),
			mcp.Required(),
		),
		mcp.WithString("bucket",
			mcp.Description("Cloud Storage bucket (default: {project}-"+BucketSuffix+")"),
		),
	), s.handlePlan)

	s.mcpServer.AddTool(mcp.NewTool("transcribe_video",
		mcp.WithDescription("Upload a local video to Cloud Storage and transcribe its speech with Gemini on Vertex AI (PAID). Tuned for Ukrainian. Writes the transcript locally and to the bucket and returns it. Ask the user for confirmation before calling this tool."),
		mcp.WithString("path",
			mcp.Description("Path to a local video file"),
			mcp.Required(),
		),
		mcp.WithString("model",
			mcp.Description("Gemini model (default: "+DefaultModel+")"),
		),
		mcp.WithBoolean("preview",
			mcp.Description("Use "+PreviewModel+" unless model is given"),
		),
		mcp.WithString("bucket",
			mcp.Description("Cloud Storage bucket (default: {project}-"+BucketSuffix+")"),
		),
	), s.handleTranscribe)
}

func overridesFromRequest(request mcp.CallToolRequest) Overrides {
	return Overrides{
		Model:   request.GetString("model", ""),
		Preview: request.GetBool("preview", false),
		Bucket:  request.GetString("bucket", ""),
	}
}

// handlePlan implements the plan_transcription tool
func (s *MCPServer) handlePlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}

	config, err := s.resolve(ctx, overridesFromRequest(request))
	if err != nil {
		return mcp.NewToolResultErrorFromErr("configuration error", err), nil
	}

	data, err := json.MarshalIndent(PlanFor(config, path), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling plan")
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(data))},
	}, nil
}

// handleTranscribe implements the transcribe_video tool
func (s *MCPServer) handleTranscribe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}
	log := s.log.WithField("path", path)

	if _, err := ValidateInput(path); err != nil {
		log.WithError(err).Error("Invalid input")
		return mcp.NewToolResultErrorFromErr("invalid input", err), nil
	}

	config, err := s.resolve(ctx, overridesFromRequest(request))
	if err != nil {
		log.WithError(err).Error("Configuration failed")
		return mcp.NewToolResultErrorFromErr("configuration error", err), nil
	}

	app, err := s.newApp(ctx, config)
	if err != nil {
		log.WithError(err).Error("Creating clients failed")
		return mcp.NewToolResultErrorFromErr("failed to create clients", err), nil
	}
	defer app.Close()

	log.WithField("model", config.Model).Info("Transcribing")
	result, err := app.Transcribe(ctx, path)
	if err != nil {
		log.WithError(err).WithField("kind", KindOf(err).String()).Error("Transcription failed")
		return mcp.NewToolResultErrorFromErr("transcription failed", err), nil
	}
	log.WithField("output", result.OutputURI).Info("Transcription complete")

	summary := fmt.Sprintf("Local: %s\nRemote: %s\nModel: %s", result.LocalPath, result.OutputURI, result.Model)
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(result.Transcript),
			mcp.NewTextContent(summary),
		},
	}, nil
}

// Start serves MCP over the given transport until ctx is cancelled
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		return s.serveHTTP(ctx, fmt.Sprintf(":%d", port))
	}

	s.log.Info("Serving MCP over stdio")
	return server.NewStdioServer(s.mcpServer).Listen(ctx, os.Stdin, os.Stdout)
}

func (s *MCPServer) serveHTTP(ctx context.Context, addr string) error {
	httpServer := server.NewStreamableHTTPServer(s.mcpServer)
	s.log.WithField("addr", addr).Info("Serving MCP over HTTP")

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serving MCP over HTTP")
	case <-ctx.Done():
		s.log.Info("Shutting down MCP HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutting down MCP HTTP server")
		}
		return ctx.Err()
	}
}
