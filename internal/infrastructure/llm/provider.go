package llm

import "context"

// Provider is a hosted or local chat-completion backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

type CompletionRequest struct {
	System string
	Prompt string
	// ForceJSON asks the backend for a JSON-only response where the
	// API supports it. The response is still fenced-checked either way.
	ForceJSON bool
	// Images carries base64-encoded attachments for vision requests.
	Images []string
}

type CompletionResponse struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// Config selects and tunes a provider.
type Config struct {
	Provider       string
	Model          string
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
	MaxTokens      int
}
