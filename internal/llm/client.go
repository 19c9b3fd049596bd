package llm

import (
	"context"
)

// GenerateRequest is one bounded inference call. MaxOutputTokens is a hard
// ceiling passed through to the provider so responses can never exceed it.
type GenerateRequest struct {
	Prompt          string
	MaxOutputTokens int
	Temperature     float32
	// JSONOutput requests structured JSON mode when the provider supports
	// it; providers without a JSON mode fall back to free-text JSON.
	JSONOutput bool
}

type LLMClient interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
