package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// pathsCmd represents the paths command
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show paths used by the application",
	Example: `  # Show all application paths
  gemscribe paths`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		configFile := config.ConfigFile
		if configFile == "" {
			configFile = "(none)"
		}
		fmt.Fprintf(out, "Config directory: %s\n", config.ConfigDir)
		fmt.Fprintf(out, "Config file: %s\n", configFile)
		fmt.Fprintf(out, "Prompt template: %s\n", filepath.Join(config.ConfigDir, "prompt.txt"))
		fmt.Fprintf(out, "MCP log file: %s\n", config.LogFile)
		fmt.Fprintf(out, "Output directory: %s\n", config.OutputDir)
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
