package llm

import (
	"context"

	"github.com/markdave123-py/joba/internal/models"
)

// ResumeAnalysis is the structured scoring the analyzer returns for a resume.
type ResumeAnalysis struct {
	Scoring  map[string]any `json:"scoring"`
	Feedback map[string]any `json:"feedback"`
}

// Analyzer is the model-facing surface the services depend on. Implementations
// must translate upstream failures into the errs taxonomy so handlers can map
// them to status codes without knowing which provider is behind the interface.
type Analyzer interface {
	AnalyzeText(ctx context.Context, text, prompt string) (string, error)
	ExtractJSON(ctx context.Context, text, prompt string) (map[string]any, error)
	AnalyzeFile(ctx context.Context, data []byte, ext, prompt string) (string, error)
	GenerateCoverLetterContent(ctx context.Context, candidate map[string]any, prompt, contentType string) (string, error)
	RenderCoverLetter(ctx context.Context, jobDescription string, content models.CoverLetterContent) (string, error)
	AnalyzeResume(ctx context.Context, candidate map[string]any) (ResumeAnalysis, error)
	GenerateJobQueryKeywords(ctx context.Context, candidate map[string]any) (models.JobQueryKeywords, error)
}
