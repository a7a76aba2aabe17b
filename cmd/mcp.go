package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/gemscribe/gemscribe/internal"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server exposing gemscribe as tools",
	Long: `Run a Model Context Protocol (MCP) server that exposes gemscribe as tools.

The MCP server provides two tools:
- plan_transcription: show bucket, object names and output file (free)
- transcribe_video: upload a local video and transcribe it with Gemini (paid)

Logs are written to the MCP log file (see "gemscribe paths").

Transport options:
- stdio (default): Standard MCP transport via stdin/stdout
- http: HTTP transport on specified port (use --port to configure)`,
	Example: `  # Run MCP server with stdio transport
  gemscribe mcp

  # Run MCP server with HTTP transport on port 8080
  gemscribe mcp --transport=http --port=8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// stdio carries the protocol, so everything else goes to the log file
		fileLog, closer, err := internal.NewFileLogger(config.LogFile, config.Verbose)
		if err != nil {
			return err
		}
		defer closer.Close()
		log = fileLog

		newMCPApp := func(ctx context.Context, cfg *internal.Config) (*internal.App, error) {
			return newApp(ctx, cfg,
				internal.WithUI(internal.NewSilentUI(fileLog)),
				internal.WithStdout(io.Discard),
			)
		}

		mcpServer := internal.NewMCPServer(resolveOverrides, newMCPApp, fileLog, version)
		return mcpServer.Start(cmd.Context(), transport, port)
	},
}

func init() {
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol (stdio or http)")
	mcpCmd.Flags().Int("port", 8080, "Port for HTTP transport (only used with --transport=http)")
	rootCmd.AddCommand(mcpCmd)
}
