package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gemscribe/gemscribe/internal"
)

// transcribeCmd represents the transcribe command
var transcribeCmd = &cobra.Command{
	Use:   "transcribe [video file]",
	Short: "Transcribe a local video (same as running gemscribe with a file)",
	Example: `  # Transcribe with the default model
  gemscribe transcribe workspace/input/interview.mp4

  # Write transcripts somewhere else and copy the result
  gemscribe transcribe interview.mp4 -d transcripts --copy

  # Custom prompt (string or file)
  gemscribe transcribe interview.mp4 --prompt prompts/with-speakers.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

// runTranscribe checks the input, resolves configuration, and runs one transcription
func runTranscribe(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	// fail on a missing file before any client is created
	if _, err := internal.ValidateInput(inputPath); err != nil {
		return err
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	app, err := newApp(cmd.Context(), cfg,
		internal.WithUI(internal.NewUIManager(cmd.ErrOrStderr(), log, cfg.Quiet)),
		internal.WithStdout(cmd.OutOrStdout()),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.WithError(err).Debug("Closing clients")
		}
	}()

	result, err := app.Transcribe(cmd.Context(), inputPath)
	if err != nil {
		return err
	}

	return handleCopyFlag(cmd, result.Transcript)
}

func init() {
	internal.AddTranscriptionFlags(transcribeCmd)
	rootCmd.AddCommand(transcribeCmd)
}
