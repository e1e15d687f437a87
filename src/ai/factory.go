package ai

// FactoryConfig builds a client without leaking provider details.
type FactoryConfig struct {
	Provider  string // "openai" or "claude"
	OpenAIKey string
	ClaudeKey string
	// Defaults
	Model       string
	Temperature float64
	MaxTokens   int
}

// NewClient returns a provider-agnostic analysis client.
func NewClient(cfg FactoryConfig) Client {
	switch cfg.Provider {
	case "claude":
		return newClaudeClient(cfg)
	default:
		return newOpenAIClient(cfg)
	}
}

func valueOrDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
