package llm

import (
	"fmt"
	"strings"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// NewProvider creates a new LLM provider based on configuration.
// gate throttles API calls and may be nil.
func NewProvider(config Config, gate Gate) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIProvider(config, gate)

	case "groq":
		// Groq speaks the OpenAI chat API on its own base URL
		if config.BaseURL == "" {
			config.BaseURL = groqBaseURL
		}
		return NewOpenAIProvider(config, gate)

	case "":
		// No provider configured - return nil (LLM mapping disabled)
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, groq)", config.Provider)
	}
}
