package llm

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/Jiya-Rathi/Bot/internal/inference"
)

// Client abstracts a hosted language model. Output is untrusted text;
// callers make no assumption of well-formedness.
type Client interface {
	// Generate submits a prompt and returns the raw completion text.
	// The operation names the calling capability ("scenario_interpretation",
	// "forecast_explanation", ...) and ends up on the inference log row,
	// so /api/inference-logs can filter by call type.
	Generate(ctx context.Context, operation, prompt string, maxTokens int, temperature float32) (string, error)
}

// Config holds model invocation parameters shared by all providers.
type Config struct {
	Provider    string // "openai" or "anthropic"
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     int // seconds
}

// DefaultConfig returns sensible defaults for scenario interpretation:
// low temperature to minimize output variance, bounded completion size.
func DefaultConfig() Config {
	return Config{
		Provider:    "openai",
		Model:       "gpt-4o-mini",
		Temperature: 0.1,
		MaxTokens:   500,
		Timeout:     60,
	}
}

// ConfigFromEnv creates config from environment variables with defaults.
func ConfigFromEnv() Config {
	config := DefaultConfig()

	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		config.Provider = provider
	}
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		config.APIKey = key
	}
	if model := os.Getenv("LLM_MODEL"); model != "" {
		config.Model = model
	}
	if tempStr := os.Getenv("LLM_TEMPERATURE"); tempStr != "" {
		if temp, err := strconv.ParseFloat(tempStr, 32); err == nil {
			config.Temperature = float32(temp)
		}
	}
	if tokStr := os.Getenv("LLM_MAX_TOKENS"); tokStr != "" {
		if tokens, err := strconv.Atoi(tokStr); err == nil && tokens > 0 {
			config.MaxTokens = tokens
		}
	}
	if timeoutStr := os.Getenv("LLM_TIMEOUT_SECONDS"); timeoutStr != "" {
		if timeout, err := strconv.Atoi(timeoutStr); err == nil && timeout > 0 {
			config.Timeout = timeout
		}
	}

	return config
}

// New constructs a client for the configured provider.
func New(config Config, logger *inference.Logger) (Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("llm api key not configured")
	}

	switch config.Provider {
	case "openai":
		return NewOpenAIClient(config, logger), nil
	case "anthropic":
		return NewAnthropicClient(config, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", config.Provider)
	}
}
