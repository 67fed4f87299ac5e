// Package llm abstracts the language-model backend used for intent
// classification. The core never depends on a concrete provider; queries
// keep working (via keyword fallback) when no backend is configured.
package llm

import "context"

// Provider is the interface for all LLM backends.
type Provider interface {
	// GenerateResponse sends a prompt plus system instruction and returns
	// the raw model text. Implementations must honor ctx cancellation so
	// the caller can enforce a timeout.
	GenerateResponse(ctx context.Context, prompt, systemPrompt string, options map[string]interface{}) (string, error)
}
