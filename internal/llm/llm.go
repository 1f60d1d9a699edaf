// Package llm abstracts the language-model provider used for workflow
// analysis. Providers return free text plus a confidence score; decoding that
// text into typed decision fields is the job of the extraction pipeline, not
// of this package.
package llm

import (
	"context"
	"errors"
)

// AnalyzeInput captures the inputs for one analysis request.
type AnalyzeInput struct {
	// Kind selects the prompt template: "pr", "issue", "release", "team".
	Kind string
	// Instructions are appended to the template's task description.
	Instructions string
	// Context is the typed collaborator data serialized into the prompt.
	Context map[string]any
}

// AnalysisResult is the provider's response.
// Confidence is always clamped to [0,100] before this struct is returned,
// regardless of what the provider emitted.
type AnalysisResult struct {
	Analysis        string
	Confidence      float64
	Recommendations []string
	// StructuredData holds any extra typed fields the provider managed to
	// emit. Best-effort; callers must not rely on specific keys.
	StructuredData map[string]any
}

// Client abstracts LLM providers for workflow analysis.
type Client interface {
	Analyze(ctx context.Context, input AnalyzeInput) (AnalysisResult, error)
}

// ClampConfidence bounds a confidence score into [0,100].
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// Analyze returns ErrNotImplemented.
func (PlaceholderClient) Analyze(ctx context.Context, input AnalyzeInput) (AnalysisResult, error) {
	_ = ctx
	_ = input
	return AnalysisResult{}, ErrNotImplemented
}
