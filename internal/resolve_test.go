package internal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigDefaults(t *testing.T) {
	base := &Config{}

	config, err := ResolveConfig(context.Background(), base, Overrides{}, StaticEnvironment{ProjectID: "myproj"})
	require.NoError(t, err)

	assert.Equal(t, "myproj", config.Project)
	assert.Equal(t, DefaultLocation, config.Location)
	assert.Equal(t, DefaultModel, config.Model)
	assert.Equal(t, "myproj-gemini-video-transcribe", config.Bucket)
	assert.Equal(t, DefaultOutputDir, config.OutputDir)
	assert.Empty(t, base.Project, "base config must not be modified")
}

func TestResolveConfigProjectPrecedence(t *testing.T) {
	env := StaticEnvironment{ProjectID: "from-env"}

	tests := []struct {
		name    string
		base    string
		flag    string
		env     Environment
		want    string
		wantErr bool
	}{
		{name: "flag wins", base: "from-config", flag: "from-flag", env: env, want: "from-flag"},
		{name: "config before environment", base: "from-config", env: env, want: "from-config"},
		{name: "environment", env: env, want: "from-env"},
		{name: "nothing found", env: StaticEnvironment{}, wantErr: true},
		{name: "no environment", env: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := ResolveConfig(context.Background(), &Config{Project: tt.base}, Overrides{Project: tt.flag}, tt.env)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, KindConfig, KindOf(err))
				assert.Contains(t, err.Error(), "--project")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, config.Project)
		})
	}
}

func TestResolveConfigRegion(t *testing.T) {
	ctx := context.Background()

	config, err := ResolveConfig(ctx, &Config{}, Overrides{}, StaticEnvironment{ProjectID: "p", RegionID: "europe-west4"})
	require.NoError(t, err)
	assert.Equal(t, "europe-west4", config.Location)

	config, err = ResolveConfig(ctx, &Config{Location: "us-east1"}, Overrides{}, StaticEnvironment{ProjectID: "p", RegionID: "europe-west4"})
	require.NoError(t, err)
	assert.Equal(t, "us-east1", config.Location)

	config, err = ResolveConfig(ctx, &Config{Location: "us-east1"}, Overrides{Location: "asia-east1"}, StaticEnvironment{ProjectID: "p"})
	require.NoError(t, err)
	assert.Equal(t, "asia-east1", config.Location)
}

func TestResolveConfigBucket(t *testing.T) {
	ctx := context.Background()
	env := StaticEnvironment{ProjectID: "myproj"}

	config, err := ResolveConfig(ctx, &Config{Bucket: "configured"}, Overrides{}, env)
	require.NoError(t, err)
	assert.Equal(t, "configured", config.Bucket)

	config, err = ResolveConfig(ctx, &Config{Bucket: "configured"}, Overrides{Bucket: "flagged"}, env)
	require.NoError(t, err)
	assert.Equal(t, "flagged", config.Bucket)

	config, err = ResolveConfig(ctx, &Config{}, Overrides{Project: "other"}, env)
	require.NoError(t, err)
	assert.Equal(t, "other-gemini-video-transcribe", config.Bucket)
}

func TestResolveConfigCredentialAndOutput(t *testing.T) {
	config, err := ResolveConfig(context.Background(),
		&Config{APIKey: "from-config", OutputDir: "/data/out"},
		Overrides{APIKey: "from-flag", MIMEType: "video/webm"},
		StaticEnvironment{ProjectID: "p"})
	require.NoError(t, err)

	assert.Equal(t, "from-flag", config.APIKey)
	assert.Equal(t, "/data/out", config.OutputDir)
	assert.Equal(t, "video/webm", config.MIMEType)
}

func TestResolveModel(t *testing.T) {
	assert.Equal(t, DefaultModel, ResolveModel("", false, ""))
	assert.Equal(t, PreviewModel, ResolveModel("", true, ""))
	assert.Equal(t, PreviewModel, ResolveModel("", true, "gemini-2.5-flash"))
	assert.Equal(t, "gemini-2.5-flash", ResolveModel("", false, "gemini-2.5-flash"))
	assert.Equal(t, "custom", ResolveModel("custom", true, "gemini-2.5-flash"))
	assert.Equal(t, DefaultModel, ResolveModel("  ", false, ""))
}
