package ai

import (
	"context"

	"careerfit/internal/config"
	"careerfit/internal/observability"

	"google.golang.org/genai"
)

// TokenUsage represents token usage information from oracle responses
type TokenUsage = observability.TokenUsage

// Request is a single oracle call
type Request struct {
	Operation config.Operation
	System    string
	User      string
	// Schema constrains the reply when the provider supports structured output.
	Schema *genai.Schema
}

// TextGenerator is the text-generation oracle. Implementations return the raw
// reply text; extracting and validating a fragment is up to the caller.
type TextGenerator interface {
	Generate(ctx context.Context, req Request) (string, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// ModelInfo represents information about the oracle model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// breakerStats is implemented by generators guarded by a circuit breaker
type breakerStats interface {
	GetCircuitBreakerStats() map[string]any
}
