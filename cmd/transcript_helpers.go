package cmd

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/gemscribe/gemscribe/internal"
)

// resolveConfig merges command line overrides into the loaded configuration
func resolveConfig(cmd *cobra.Command) (*internal.Config, error) {
	overrides, err := internal.OverridesFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	return resolveOverrides(cmd.Context(), overrides)
}

// resolveOverrides fills in project, region, model and bucket from flags, config and gcloud
func resolveOverrides(ctx context.Context, overrides internal.Overrides) (*internal.Config, error) {
	if overrides.KeepGCS {
		log.Debug("--keep-gcs has no effect; uploaded files are always kept")
	}

	env := internal.NewGcloudEnvironment(&internal.DefaultCommandRunner{}, log)
	cfg, err := internal.ResolveConfig(ctx, config, overrides, env)
	if err != nil {
		return nil, err
	}

	log.WithField("project", cfg.Project).
		WithField("location", cfg.Location).
		WithField("model", cfg.Model).
		WithField("bucket", cfg.Bucket).
		WithField("api_key", cfg.APIKey != "").
		Debug("Configuration resolved")
	return cfg, nil
}

// newApp creates the Cloud Storage and Gemini clients for cfg
func newApp(ctx context.Context, cfg *internal.Config, options ...internal.AppOption) (*internal.App, error) {
	store, err := internal.NewGCSStore(ctx)
	if err != nil {
		return nil, err
	}

	model, err := internal.NewGeminiClient(ctx, cfg, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return internal.NewApp(cfg, store, model, options...), nil
}

// handleCopyFlag copies the transcript to the clipboard when --copy is set
func handleCopyFlag(cmd *cobra.Command, transcript string) error {
	copyFlag, _ := cmd.Flags().GetBool("copy")
	if !copyFlag {
		return nil
	}

	// the transcript is already saved, so a clipboard failure is not fatal
	if err := clipboard.WriteAll(transcript); err != nil {
		log.WithError(err).Warn("Failed to copy transcript to clipboard")
		return nil
	}
	log.Info("Transcript copied to clipboard")
	return nil
}
