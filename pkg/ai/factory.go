package ai

import (
	"fmt"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "auto", "openai", "gemini", "ollama" or "keyword"

	OpenAIAPIKey string
	OpenAIModel  string

	GeminiAPIKey string

	// Ollama settings are read through getters so the settings API can
	// change them at runtime.
	GetOllamaBaseURL func() string
	GetOllamaModel   func() string
}

// NewInterpreter creates the fallback chain for cfg.Provider. A named
// provider that lacks its API key is an error; "auto" uses every provider
// that is configured, with Ollama last.
func NewInterpreter(cfg Config) (*FallbackService, error) {
	openai := func() Provider {
		return Provider{Name: string(ProviderOpenAI), Interpreter: NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel)}
	}
	gemini := func() Provider {
		return Provider{Name: string(ProviderGemini), Interpreter: NewGeminiService(cfg.GeminiAPIKey)}
	}
	ollama := func() Provider {
		if cfg.GetOllamaBaseURL == nil || cfg.GetOllamaModel == nil {
			return Provider{Name: string(ProviderOllama), Interpreter: NewOllamaService("", "")}
		}
		return Provider{Name: string(ProviderOllama), Interpreter: NewOllamaServiceWithGetters(cfg.GetOllamaBaseURL, cfg.GetOllamaModel)}
	}

	switch cfg.Provider {
	case ProviderKeyword:
		return NewFallbackService(), nil

	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		return NewFallbackService(openai()), nil

	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return NewFallbackService(gemini()), nil

	case ProviderOllama:
		return NewFallbackService(ollama()), nil

	case ProviderAuto, "":
		var chain []Provider
		if cfg.OpenAIAPIKey != "" {
			chain = append(chain, openai())
		}
		if cfg.GeminiAPIKey != "" {
			chain = append(chain, gemini())
		}
		chain = append(chain, ollama())
		return NewFallbackService(chain...), nil

	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
