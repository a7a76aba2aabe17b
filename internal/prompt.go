package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/pkg/errors"
)

// PromptData for template injection
type PromptData struct {
	FileName string
	Language string
}

// PromptManager handles loading and processing prompt templates
type PromptManager struct {
	promptFile   string
	promptString string
	configDir    string
}

// NewPromptManager creates a new prompt manager
func NewPromptManager(configDir, promptSetting string) *PromptManager {
	pm := &PromptManager{
		configDir: configDir,
	}

	if promptSetting != "" {
		if IsLikelyFilePath(promptSetting) && FileExists(promptSetting) {
			pm.promptFile = promptSetting
		} else {
			pm.promptString = promptSetting
		}
	}

	return pm
}

// CreatePrompt builds the transcription prompt for an input file
func (pm *PromptManager) CreatePrompt(inputPath string) (string, error) {
	tmplContent, err := pm.templateContent()
	if err != nil {
		return "", err
	}

	tmpl, err := template.New("prompt").Parse(tmplContent)
	if err != nil {
		return "", errors.Wrap(err, "parsing prompt template")
	}

	data := PromptData{
		FileName: filepath.Base(inputPath),
		Language: "Ukrainian",
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "executing prompt template")
	}

	prompt := strings.TrimSpace(buf.String())
	if prompt == "" {
		return "", errors.New("prompt is empty")
	}
	return prompt, nil
}

// templateContent picks the custom string, the custom file, the user's
// prompt.txt in the config directory, or the built-in prompt, in that order
func (pm *PromptManager) templateContent() (string, error) {
	if pm.promptString != "" {
		return pm.promptString, nil
	}

	promptFile := pm.promptFile
	if promptFile == "" && pm.configDir != "" {
		if candidate := filepath.Join(pm.configDir, "prompt.txt"); FileExists(candidate) {
			promptFile = candidate
		}
	}
	if promptFile == "" {
		return defaultPrompt(), nil
	}

	content, err := os.ReadFile(promptFile)
	if err != nil {
		return "", errors.Wrap(err, "reading prompt template")
	}
	return string(content), nil
}

// IsLikelyFilePath uses heuristics to determine if a string is likely a file path
func IsLikelyFilePath(s string) bool {
	if strings.Contains(s, "/") || strings.Contains(s, "\\") {
		return true
	}

	if strings.HasSuffix(s, ".txt") || strings.HasSuffix(s, ".md") ||
		strings.HasSuffix(s, ".tmpl") || strings.HasSuffix(s, ".template") {
		return true
	}

	// If it's longer than 200 characters, it's likely a prompt string
	if len(s) > 200 {
		return false
	}

	return !strings.Contains(s, " ") && !strings.Contains(s, "\n")
}
