package internal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// TranscriptGenerator turns an uploaded video into text
type TranscriptGenerator interface {
	GenerateTranscript(ctx context.Context, req TranscriptRequest) (string, error)
}

// contentGenerator is the part of genai.Models used here
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient wraps the Google GenAI SDK on the Vertex AI backend
type GeminiClient struct {
	models          contentGenerator
	temperature     float32
	maxOutputTokens int32
	timeout         time.Duration
	log             logrus.FieldLogger
}

// NewGeminiClient creates a Vertex AI client. With an API key the client runs in
// express mode; otherwise project and location are used with application default credentials.
func NewGeminiClient(ctx context.Context, config *Config, log logrus.FieldLogger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, clientConfig(config))
	if err != nil {
		return nil, ConfigError("creating Vertex AI client", err,
			"pass --api-key or run gcloud auth application-default login")
	}

	return newGeminiClient(client.Models, config, log), nil
}

// clientConfig selects express mode for an API key, otherwise project and location with ADC
func clientConfig(config *Config) *genai.ClientConfig {
	cc := &genai.ClientConfig{Backend: genai.BackendVertexAI}
	if config.APIKey != "" {
		// project/location and API key are mutually exclusive
		cc.APIKey = config.APIKey
		return cc
	}
	cc.Project = config.Project
	cc.Location = config.Location
	return cc
}

func newGeminiClient(models contentGenerator, config *Config, log logrus.FieldLogger) *GeminiClient {
	timeout := config.GenerateTimeout
	if timeout <= 0 {
		timeout = DefaultGenerateTimeout
	}
	maxTokens := config.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxOutputTokens
	}
	return &GeminiClient{
		models:          models,
		temperature:     config.Temperature,
		maxOutputTokens: maxTokens,
		timeout:         timeout,
		log:             log,
	}
}

// GenerateTranscript sends one request with the video and the prompt and waits for the answer
func (c *GeminiClient) GenerateTranscript(ctx context.Context, req TranscriptRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	parts := []*genai.Part{
		genai.NewPartFromURI(req.FileURI, req.MIMEType),
		genai.NewPartFromText(req.Prompt),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	c.log.WithFields(logrus.Fields{
		"model":     req.Model,
		"uri":       req.FileURI,
		"mime_type": req.MIMEType,
	}).Debug("Sending generate request")

	resp, err := c.models.GenerateContent(ctx, req.Model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.temperature),
		MaxOutputTokens: c.maxOutputTokens,
	})
	if err != nil {
		return "", ModelError(fmt.Sprintf("generating transcript with %s", req.Model), err)
	}

	return c.transcriptFromResponse(req.Model, resp)
}

// transcriptFromResponse extracts the text and rejects empty answers
func (c *GeminiClient) transcriptFromResponse(model string, resp *genai.GenerateContentResponse) (string, error) {
	op := fmt.Sprintf("reading %s response", model)
	if resp == nil {
		return "", ModelError(op, ErrNoTranscript)
	}

	if usage := resp.UsageMetadata; usage != nil {
		c.log.WithFields(logrus.Fields{
			"prompt_tokens":   usage.PromptTokenCount,
			"response_tokens": usage.CandidatesTokenCount,
		}).Debug("Token usage")
	}

	var finish genai.FinishReason
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		finish = resp.Candidates[0].FinishReason
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		if feedback := resp.PromptFeedback; feedback != nil && feedback.BlockReason != "" {
			return "", ModelError(op, errors.Wrapf(ErrNoTranscript, "prompt blocked (%s) %s", feedback.BlockReason, feedback.BlockReasonMessage))
		}
		if finish != "" && finish != genai.FinishReasonStop {
			return "", ModelError(op, errors.Wrapf(ErrNoTranscript, "finish reason %s", finish))
		}
		return "", ModelError(op, ErrNoTranscript)
	}

	if finish == genai.FinishReasonMaxTokens {
		c.log.WithField("max_output_tokens", c.maxOutputTokens).Warn("Transcript hit the output token limit and may be truncated")
	}
	return text, nil
}
