package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries every setting the daemon reads. Everything comes from the
// environment; only the key for the selected AI provider is mandatory.
type Config struct {
	MySQLDSN string
	RedisURL string
	Port     string

	Provider  string
	OpenAIKey string
	ClaudeKey string
	Model     string

	GraphQLURL     string
	HubURL         string
	Space          string
	VotePrivateKey string

	PollInterval  time.Duration
	AnalysisDelay time.Duration
}

func Load() (Config, error) {
	cfg := Config{
		MySQLDSN: getEnv("MYSQL_DSN", "dev:test@tcp(localhost:3306)/snapvote"),
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		Port:     getEnv("PORT", "8080"),

		Provider:  getEnv("AI_PROVIDER", "openai"),
		OpenAIKey: os.Getenv("OPENAI_API_KEY"),
		ClaudeKey: os.Getenv("ANTHROPIC_API_KEY"),
		Model:     os.Getenv("AI_MODEL"),

		GraphQLURL:     os.Getenv("SNAPSHOT_GRAPHQL_URL"),
		HubURL:         os.Getenv("SNAPSHOT_HUB_URL"),
		Space:          getEnv("SNAPSHOT_SPACE", "arbitrumfoundation.eth"),
		VotePrivateKey: os.Getenv("VOTE_PRIVATE_KEY"),

		PollInterval:  time.Duration(getEnvInt("POLL_INTERVAL", 300)) * time.Second,
		AnalysisDelay: time.Duration(getEnvInt("ANALYSIS_DELAY", 5)) * time.Second,
	}

	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return Config{}, fmt.Errorf("OPENAI_API_KEY is not set")
		}
	case "claude":
		if cfg.ClaudeKey == "" {
			return Config{}, fmt.Errorf("ANTHROPIC_API_KEY is not set")
		}
	default:
		return Config{}, fmt.Errorf("unknown AI_PROVIDER %q", cfg.Provider)
	}

	if cfg.PollInterval <= 0 {
		return Config{}, fmt.Errorf("POLL_INTERVAL must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}
