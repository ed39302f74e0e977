package domain

import "context"

// CompletionRequest describes a single text-generation call.
type CompletionRequest struct {
	Prompt       string
	SystemPrompt string
	// JSONObject constrains the response to a single valid JSON object.
	JSONObject bool
}

// Completer is the text-generation capability contract shared between layers.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// HealthChecker verifies completion provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
