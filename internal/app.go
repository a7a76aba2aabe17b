package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const transcriptContentType = "text/plain; charset=utf-8"

// App holds the application state and dependencies
type App struct {
	config        *Config
	store         ObjectStore
	model         TranscriptGenerator
	promptManager *PromptManager
	ui            UIManager
	stdout        io.Writer
}

// NewApp initializes the application around a resolved configuration
func NewApp(config *Config, store ObjectStore, model TranscriptGenerator, options ...AppOption) *App {
	app := &App{
		config:        config,
		store:         store,
		model:         model,
		promptManager: NewPromptManager(config.ConfigDir, config.Prompt),
		ui:            NewSilentUI(logrus.StandardLogger()),
		stdout:        os.Stdout,
	}

	for _, option := range options {
		option(app)
	}

	return app
}

// AppOption customizes App creation
type AppOption func(*App)

// WithUI sets the user interface used for status and progress
func WithUI(ui UIManager) AppOption {
	return func(a *App) {
		a.ui = ui
	}
}

// WithStdout sets where the transcript is printed
func WithStdout(w io.Writer) AppOption {
	return func(a *App) {
		a.stdout = w
	}
}

// WithPromptManager sets a custom prompt manager
func WithPromptManager(pm *PromptManager) AppOption {
	return func(a *App) {
		a.promptManager = pm
	}
}

// Close releases clients that hold resources
func (app *App) Close() error {
	if closer, ok := app.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Plan returns the destinations for inputPath without touching the network
func (app *App) Plan(inputPath string) Plan {
	return PlanFor(app.config, inputPath)
}

// Transcribe runs the whole workflow for one file: ensure bucket -> upload ->
// generate -> write locally -> write to the bucket -> print
func (app *App) Transcribe(ctx context.Context, inputPath string) (*Result, error) {
	size, err := ValidateInput(inputPath)
	if err != nil {
		return nil, err
	}

	plan := app.Plan(inputPath)
	app.ui.Verbose("Plan: %s", plan)

	prompt, err := app.promptManager.CreatePrompt(inputPath)
	if err != nil {
		return nil, ConfigError("building prompt", err, "check --prompt or prompt.txt in "+app.config.ConfigDir)
	}

	mimeType := app.config.MIMEType
	if mimeType == "" {
		mimeType = DetectMIMEType(inputPath)
	}

	app.ui.Printf("Using project %s, region %s, model %s", app.config.Project, app.config.Location, app.config.Model)

	created, err := app.store.EnsureBucket(ctx, plan.Bucket, app.config.Project, app.config.Location)
	if err != nil {
		return nil, err
	}
	if created {
		app.ui.Printf("Created bucket gs://%s in %s", plan.Bucket, app.config.Location)
	} else {
		app.ui.Verbose("Using existing bucket gs://%s", plan.Bucket)
	}

	inputURI, err := app.upload(ctx, plan, size, mimeType)
	if err != nil {
		return nil, err
	}

	transcript, err := app.generate(ctx, TranscriptRequest{
		Model:    app.config.Model,
		FileURI:  inputURI,
		MIMEType: mimeType,
		Prompt:   prompt,
	})
	if err != nil {
		return nil, err
	}

	// local copy first, it must survive a failed remote write
	if err := writeLocal(plan.LocalPath, transcript); err != nil {
		return nil, err
	}
	app.ui.Printf("[Local] Output saved to: %s", app.ui.Highlight(plan.LocalPath))

	outputURI, err := app.store.WriteObject(ctx, plan.Bucket, plan.OutputObject, []byte(transcript), transcriptContentType)
	if err != nil {
		app.ui.Warnf("Transcript kept locally at %s", plan.LocalPath)
		return nil, err
	}
	app.ui.Printf("[GCS] Output uploaded to: %s", app.ui.Highlight(outputURI))

	if err := app.print(transcript); err != nil {
		return nil, WriteError("printing transcript", err, "")
	}

	return &Result{
		Plan:          plan,
		Transcript:    transcript,
		MIMEType:      mimeType,
		BucketCreated: created,
	}, nil
}

// upload streams the input file into the bucket with a progress bar
func (app *App) upload(ctx context.Context, plan Plan, size int64, mimeType string) (string, error) {
	file, err := os.Open(plan.InputPath)
	if err != nil {
		return "", PreconditionError("opening input", err)
	}
	defer file.Close()

	app.ui.Printf("Uploading %s to %s ...", plan.InputPath, plan.InputURI)

	bar := app.ui.NewBytesBar(size, "Uploading")
	uri, err := app.store.Upload(ctx, plan.Bucket, plan.InputObject, io.TeeReader(file, bar), mimeType)
	_ = bar.Finish()
	if err != nil {
		return "", err
	}

	app.ui.Verbose("File uploaded to %s (%s)", uri, mimeType)
	return uri, nil
}

// generate asks the model for the transcript while a spinner runs
func (app *App) generate(ctx context.Context, req TranscriptRequest) (string, error) {
	spinner := app.ui.NewSpinner(fmt.Sprintf("Transcribing with %s...", req.Model))
	transcript, err := app.model.GenerateTranscript(ctx, req)
	_ = spinner.Finish()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(transcript) == "" {
		return "", ModelError("generating transcript", ErrNoTranscript)
	}
	return transcript, nil
}

// print writes the transcript exactly; terminals get a trailing newline
func (app *App) print(transcript string) error {
	if _, err := io.WriteString(app.stdout, transcript); err != nil {
		return err
	}
	if IsTerminal(app.stdout) && !strings.HasSuffix(transcript, "\n") {
		_, err := io.WriteString(app.stdout, "\n")
		return err
	}
	return nil
}

// writeLocal stores the transcript, replacing any previous run's file
func writeLocal(path, transcript string) error {
	if err := EnsureDirs(filepath.Dir(path)); err != nil {
		return WriteError("creating output directory", err, "")
	}
	if err := os.WriteFile(path, []byte(transcript), 0644); err != nil {
		return WriteError("saving transcript", errors.Wrap(err, path), "")
	}
	return nil
}
