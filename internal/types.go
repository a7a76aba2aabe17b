package internal

import "fmt"

// Plan lists where a transcription run reads from and writes to.
// It depends only on the input file name and the resolved Config.
type Plan struct {
	InputPath      string `json:"input_path"`
	Bucket         string `json:"bucket"`
	InputObject    string `json:"input_object"`
	InputURI       string `json:"input_uri"`
	OutputFileName string `json:"output_file_name"`
	OutputObject   string `json:"output_object"`
	OutputURI      string `json:"output_uri"`
	LocalPath      string `json:"local_path"`
	Model          string `json:"model"`
}

// String returns a formatted representation of the plan
func (p Plan) String() string {
	return fmt.Sprintf("Plan{input=%s, upload=%s, local=%s, output=%s, model=%s}",
		p.InputPath, p.InputURI, p.LocalPath, p.OutputURI, p.Model)
}

// Result is the outcome of a successful transcription
type Result struct {
	Plan
	Transcript    string `json:"transcript"`
	MIMEType      string `json:"mime_type"`
	BucketCreated bool   `json:"bucket_created"`
}

// TranscriptRequest is a single generation request for an uploaded video
type TranscriptRequest struct {
	Model    string
	FileURI  string
	MIMEType string
	Prompt   string
}
