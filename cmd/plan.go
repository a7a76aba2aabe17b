package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gemscribe/gemscribe/internal"
)

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan [video file]",
	Short: "Show bucket, object names and output file for a video without uploading",
	Example: `  # Show where video.mp4 would go
  gemscribe plan video.mp4 --pretty

  # With an explicit project
  gemscribe plan video.mp4 --project myproj

  # Save the plan to a file
  gemscribe plan video.mp4 -o plan.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		plan := internal.PlanFor(cfg, args[0])

		var jsonData []byte
		pretty, _ := cmd.Flags().GetBool("pretty")
		if pretty {
			jsonData, err = json.MarshalIndent(plan, "", "  ")
		} else {
			jsonData, err = json.Marshal(plan)
		}
		if err != nil {
			return errors.Wrap(err, "converting plan to JSON")
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			if err := os.WriteFile(outputFile, jsonData, 0644); err != nil {
				return internal.WriteError("writing plan", err, "")
			}
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
		return nil
	},
}

func init() {
	internal.AddCloudFlags(planCmd)
	internal.AddModelSelectionFlags(planCmd)
	planCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	planCmd.Flags().Bool("pretty", false, "Format output as pretty JSON")
	rootCmd.AddCommand(planCmd)
}
