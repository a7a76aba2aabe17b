package internal

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Overrides holds values supplied on the command line
type Overrides struct {
	Project   string
	Location  string
	Model     string
	Bucket    string
	APIKey    string
	OutputDir string
	Prompt    string
	MIMEType  string
	Preview   bool
	// KeepGCS is accepted for compatibility and ignored; uploaded inputs are never deleted
	KeepGCS bool
}

// ResolveConfig fills in project, region, model, bucket and credential.
// base is not modified; the returned Config is meant to be read-only.
func ResolveConfig(ctx context.Context, base *Config, o Overrides, env Environment) (*Config, error) {
	config := *base

	config.Project = firstNonEmpty(o.Project, base.Project)
	if config.Project == "" && env != nil {
		config.Project = strings.TrimSpace(env.Project(ctx))
	}
	if config.Project == "" {
		return nil, ConfigError("resolving project",
			errors.New("Google Cloud project ID needed"),
			"use --project or set up application default credentials (gcloud auth application-default login) or run gcloud config set project <id>")
	}

	config.Location = firstNonEmpty(o.Location, base.Location)
	if config.Location == "" && env != nil {
		config.Location = strings.TrimSpace(env.Region(ctx))
	}
	if config.Location == "" {
		config.Location = DefaultLocation
	}

	config.Model = ResolveModel(o.Model, o.Preview, base.Model)
	config.Bucket = firstNonEmpty(o.Bucket, base.Bucket, BucketName(config.Project))
	config.APIKey = firstNonEmpty(o.APIKey, base.APIKey)
	config.OutputDir = firstNonEmpty(o.OutputDir, base.OutputDir, DefaultOutputDir)
	config.Prompt = firstNonEmpty(o.Prompt, base.Prompt)
	config.MIMEType = firstNonEmpty(o.MIMEType, base.MIMEType)

	return &config, nil
}

// ResolveModel picks the model: an explicit --model wins over --preview,
// which wins over the configured model
func ResolveModel(explicit string, preview bool, configured string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	if preview {
		return PreviewModel
	}
	return firstNonEmpty(configured, DefaultModel)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
