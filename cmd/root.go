package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gemscribe/gemscribe/internal"
)

var (
	config *internal.Config
	log    = logrus.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gemscribe [video file]",
	Short: "Transcribe video speech with Gemini on Vertex AI",
	Long: `gemscribe transcribes the speech in a local video with Gemini on Vertex AI.

The video is uploaded to a Cloud Storage bucket (inputs/), the model is asked
for a plain-text transcript tuned for Ukrainian speech, and the result is
written to a local output directory, to the bucket (outputs/) and to stdout.

Uploaded videos are kept in the bucket; the bucket is created on first use.`,
	Example: `  # Transcribe a video using the gcloud project and region
  gemscribe workspace/input/video.mp4

  # Use the preview model
  gemscribe video.mp4 --preview

  # Pick project, region and bucket explicitly
  gemscribe video.mp4 --project myproj --location europe-west4 --bucket my-bucket

  # Authenticate the model call with an API key
  gemscribe video.mp4 --api-key "$VERTEX_API_KEY"`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	Args:              cobra.ExactArgs(1),
	RunE:              runTranscribe,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	ctx, stop := interruptContext(context.Background())
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

// interruptContext is cancelled by the first SIGINT or SIGTERM, which also
// restores default signal handling: a second interrupt kills the process.
// Nothing is cleaned up.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}

// setup loads configuration and prepares logging before any command runs
func setup(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")

	cfg, err := internal.InitConfig(configFile)
	if err != nil {
		return err
	}
	if err := internal.HandleVerboseFlag(cmd, cfg); err != nil {
		return err
	}
	config = cfg
	log = internal.NewLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.Quiet)

	if created, err := internal.EnsureDefaultConfig(cfg.ConfigDir); err != nil {
		log.WithError(err).Warn("Failed to ensure default config")
	} else if created {
		log.Infof("Created default configuration in %s", cfg.ConfigDir)
	}

	if created, err := internal.EnsureDefaultPrompt(cfg.ConfigDir); err != nil {
		log.WithError(err).Warn("Failed to ensure default prompt")
	} else if created {
		log.Infof("Created default prompt template in %s", cfg.ConfigDir)
	}

	log.WithField("config_file", cfg.ConfigFile).Debug("Configuration loaded")
	return nil
}

func init() {
	internal.AddTranscriptionFlags(rootCmd)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only print the transcript and errors")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $XDG_CONFIG_HOME/gemscribe/config.toml)")
}
