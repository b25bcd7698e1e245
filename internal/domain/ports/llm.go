// Package ports defines interfaces for external service communication.
package ports

import "context"

// Credential is an opaque signing credential supplied by the wallet layer.
// It is passed through to the LLM transport without being interpreted here.
type Credential any

// QueryOptions tunes a single LLM query. Zero values mean "use the
// client's defaults" (default model, 1024 max tokens, temperature 0.0,
// top-p 0.5, no credential).
type QueryOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
	TopP        float64
	Credential  Credential
}

// LLMClient defines the interface for LLM completion queries.
type LLMClient interface {
	// Query sends a single-turn prompt and returns the generated text.
	Query(ctx context.Context, prompt string, opts QueryOptions) (string, error)
}
