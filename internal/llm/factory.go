package llm

import (
	"fmt"
	"os"
)

// NewProvider creates a provider for the given provider type and model.
// Supported provider types: "google", "openai", "ollama".
//
// Cloud providers read their API key from the environment on every call
// rather than here, so a missing key surfaces as ErrNoCredential at request
// time instead of preventing startup.
func NewProvider(providerType string, model string) (Provider, error) {
	switch providerType {
	case "google":
		return NewGoogleProvider(EnvKey("GOOGLE_API_KEY"), model), nil

	case "openai":
		return NewOpenAIProvider(EnvKey("OPENAI_API_KEY"), model), nil

	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
