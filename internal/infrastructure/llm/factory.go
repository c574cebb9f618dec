package llm

import (
	"fmt"
	"strings"
)

// NewProvider builds the configured backend. An empty provider name is
// an error here: the scan pipeline cannot run without a model.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)
	case "ollama":
		return NewOllamaProvider(config)
	default:
		return nil, fmt.Errorf("unknown llm provider: %q (supported: openai, ollama)", config.Provider)
	}
}
