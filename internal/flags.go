package internal

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// AddCloudFlags adds flags that select the project, region and bucket
func AddCloudFlags(cmd *cobra.Command) {
	cmd.Flags().String("project", "", "Google Cloud project ID (default: ADC or gcloud config)")
	cmd.Flags().String("location", "", "Google Cloud region (default: gcloud compute/region or "+DefaultLocation+")")
	cmd.Flags().String("bucket", "", "Cloud Storage bucket for inputs/ and outputs/ (default: {project}-"+BucketSuffix+")")
	cmd.Flags().StringP("output-dir", "d", "", "Local directory for transcripts (default: "+DefaultOutputDir+")")
}

// AddModelSelectionFlags adds --model and --preview
func AddModelSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("model", "m", "", "Gemini model (default: "+DefaultModel+")")
	cmd.Flags().Bool("preview", false, "Use "+PreviewModel+" (ignored when --model is given)")
}

// AddModelFlags adds flags related to the Gemini request
func AddModelFlags(cmd *cobra.Command) {
	AddModelSelectionFlags(cmd)
	cmd.Flags().String("api-key", "", "Vertex AI API key instead of application default credentials")
	cmd.Flags().StringP("prompt", "p", "", "Custom prompt (string or file path)")
	cmd.Flags().String("mime-type", "", "MIME type of the input (default: detected from content)")
}

// AddTranscriptionFlags adds every flag a transcription run accepts
func AddTranscriptionFlags(cmd *cobra.Command) {
	AddCloudFlags(cmd)
	AddModelFlags(cmd)
	cmd.Flags().Bool("keep-gcs", false, "Ignored; uploaded files are always kept")
	_ = cmd.Flags().MarkDeprecated("keep-gcs", "uploaded files are always kept in the bucket")
	cmd.Flags().Bool("copy", false, "Also copy the transcript to the clipboard")
}

// OverridesFromFlags collects the values given on the command line.
// Flags that were not registered on cmd are left empty.
func OverridesFromFlags(cmd *cobra.Command) (Overrides, error) {
	flags := cmd.Flags()
	var o Overrides
	var err error

	strs := map[string]*string{
		"project":    &o.Project,
		"location":   &o.Location,
		"bucket":     &o.Bucket,
		"output-dir": &o.OutputDir,
		"model":      &o.Model,
		"api-key":    &o.APIKey,
		"prompt":     &o.Prompt,
		"mime-type":  &o.MIMEType,
	}
	for name, dst := range strs {
		if flags.Lookup(name) == nil {
			continue
		}
		if *dst, err = flags.GetString(name); err != nil {
			return Overrides{}, errors.Wrapf(err, "failed to get %s flag", name)
		}
	}

	bools := map[string]*bool{
		"preview":  &o.Preview,
		"keep-gcs": &o.KeepGCS,
	}
	for name, dst := range bools {
		if flags.Lookup(name) == nil {
			continue
		}
		if *dst, err = flags.GetBool(name); err != nil {
			return Overrides{}, errors.Wrapf(err, "failed to get %s flag", name)
		}
	}

	return o, nil
}

// HandleVerboseFlag processes the --verbose and --quiet flags to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	if f := lookupFlag(cmd, "verbose"); f != nil && f.Changed {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return errors.Wrap(err, "failed to get verbose flag")
		}
		config.Verbose = verbose
	}
	if f := lookupFlag(cmd, "quiet"); f != nil && f.Changed {
		quiet, err := cmd.Flags().GetBool("quiet")
		if err != nil {
			return errors.Wrap(err, "failed to get quiet flag")
		}
		config.Quiet = quiet
	}
	return nil
}

func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	return cmd.Flags().Lookup(name)
}
