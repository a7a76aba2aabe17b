package internal

import (
	"context"
	"embed"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// AppName is used for XDG directories and the env prefix
	AppName = "gemscribe"

	DefaultModel     = "gemini-2.5-pro"
	PreviewModel     = "gemini-3-pro-preview"
	DefaultLocation  = "us-central1"
	DefaultOutputDir = "workspace/output"
	BucketSuffix     = "gemini-video-transcribe"

	DefaultGenerateTimeout = 30 * time.Minute
	DefaultMaxOutputTokens = 65535
)

// CommandRunner executes external commands
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultCommandRunner implements CommandRunner
type DefaultCommandRunner struct{}

func (r *DefaultCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// Config holds application settings
type Config struct {
	// Resolved cloud settings
	Project  string
	Location string
	Model    string
	Bucket   string
	APIKey   string

	// User configurable settings
	OutputDir       string
	Prompt          string
	MIMEType        string
	GenerateTimeout time.Duration
	Temperature     float32
	MaxOutputTokens int32
	Verbose         bool
	Quiet           bool

	// Fixed XDG paths (not configurable)
	ConfigDir  string
	CacheDir   string
	ConfigFile string
	LogFile    string
}

//go:embed config.toml prompt.txt
var defaultFS embed.FS

// ensureDefaultFile checks if a file exists in the specified directory
// and creates it from the embedded default if it doesn't exist
func ensureDefaultFile(configDir, embedFilename, description string) (bool, error) {
	filePath := filepath.Join(configDir, embedFilename)
	if FileExists(filePath) {
		return false, nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return false, errors.Wrap(err, "creating config directory")
	}

	defaultContent, err := defaultFS.ReadFile(embedFilename)
	if err != nil {
		return false, errors.Wrapf(err, "reading embedded default %s", description)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return false, errors.Wrapf(err, "writing default %s", description)
	}
	return true, nil
}

// EnsureDefaultConfig creates config.toml in configDir from the embedded default.
// It reports whether a file was created.
func EnsureDefaultConfig(configDir string) (bool, error) {
	return ensureDefaultFile(configDir, "config.toml", "configuration")
}

// EnsureDefaultPrompt creates prompt.txt in configDir from the embedded default.
// It reports whether a file was created.
func EnsureDefaultPrompt(configDir string) (bool, error) {
	return ensureDefaultFile(configDir, "prompt.txt", "prompt template")
}

// defaultPrompt returns the embedded transcription prompt
func defaultPrompt() string {
	content, err := defaultFS.ReadFile("prompt.txt")
	if err != nil {
		// embedded at build time
		panic(err)
	}
	return strings.TrimSpace(string(content))
}

// Dirs groups the directories the application reads from and writes to
type Dirs struct {
	ConfigDir string
	CacheDir  string
}

// DefaultDirs returns the XDG directories for gemscribe
func DefaultDirs() Dirs {
	return Dirs{
		ConfigDir: filepath.Join(xdg.ConfigHome, AppName),
		CacheDir:  filepath.Join(xdg.CacheHome, AppName),
	}
}

// InitConfig loads configuration from the XDG config dir (or configFile when set),
// the environment and built-in defaults
func InitConfig(configFile string) (*Config, error) {
	return LoadConfig(viper.New(), DefaultDirs(), configFile)
}

// LoadConfig reads configuration into a Config using the given viper instance
func LoadConfig(v *viper.Viper, dirs Dirs, configFile string) (*Config, error) {
	v.SetDefault("project", "")
	v.SetDefault("location", "")
	v.SetDefault("model", "")
	v.SetDefault("bucket", "")
	v.SetDefault("api_key", "")
	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("prompt", "") // if empty will use default prompt template
	v.SetDefault("mime_type", "")
	v.SetDefault("generate_timeout", DefaultGenerateTimeout)
	v.SetDefault("temperature", 0.0)
	v.SetDefault("max_output_tokens", DefaultMaxOutputTokens)
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(dirs.ConfigDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Google's own variables are honoured after ours
	_ = v.BindEnv("project", "GEMSCRIBE_PROJECT", "GOOGLE_CLOUD_PROJECT")
	_ = v.BindEnv("location", "GEMSCRIBE_LOCATION", "GOOGLE_CLOUD_LOCATION")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, ConfigError("reading config file", err, "fix or remove the config file, or pass --config")
		}
	}

	config := &Config{
		Project:         strings.TrimSpace(v.GetString("project")),
		Location:        strings.TrimSpace(v.GetString("location")),
		Model:           strings.TrimSpace(v.GetString("model")),
		Bucket:          strings.TrimSpace(v.GetString("bucket")),
		APIKey:          strings.TrimSpace(v.GetString("api_key")),
		OutputDir:       v.GetString("output_dir"),
		Prompt:          v.GetString("prompt"),
		MIMEType:        v.GetString("mime_type"),
		GenerateTimeout: v.GetDuration("generate_timeout"),
		Temperature:     float32(v.GetFloat64("temperature")),
		MaxOutputTokens: v.GetInt32("max_output_tokens"),
		Verbose:         v.GetBool("verbose"),
		Quiet:           v.GetBool("quiet"),

		ConfigDir:  dirs.ConfigDir,
		CacheDir:   dirs.CacheDir,
		ConfigFile: v.ConfigFileUsed(),
		LogFile:    filepath.Join(dirs.CacheDir, "mcp.log"),
	}

	if config.GenerateTimeout <= 0 {
		return nil, ConfigError("reading config", errors.Errorf("generate_timeout must be positive, got %s", config.GenerateTimeout), "")
	}
	if config.MaxOutputTokens <= 0 {
		return nil, ConfigError("reading config", errors.Errorf("max_output_tokens must be positive, got %d", config.MaxOutputTokens), "")
	}

	return config, nil
}
