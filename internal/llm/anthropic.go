package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/Jiya-Rathi/Bot/internal/inference"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient generates completions through the Anthropic Messages API.
type AnthropicClient struct {
	client          anthropic.Client
	config          Config
	inferenceLogger *inference.Logger
}

// NewAnthropicClient creates an Anthropic-backed model client.
func NewAnthropicClient(config Config, logger *inference.Logger) *AnthropicClient {
	return &AnthropicClient{
		client:          anthropic.NewClient(option.WithAPIKey(config.APIKey)),
		config:          config,
		inferenceLogger: logger,
	}
}

// Generate submits the prompt as a single user message and returns the
// first text block of the response.
func (c *AnthropicClient) Generate(ctx context.Context, operation, prompt string, maxTokens int, temperature float32) (string, error) {
	timeout := time.Duration(c.config.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	apiCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.config.Model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(float64(temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	start := time.Now()
	resp, err := c.client.Messages.New(apiCtx, req)
	latency := time.Since(start)

	if c.inferenceLogger != nil {
		usage := inference.Usage{}
		if err == nil {
			usage.InputTokens = int(resp.Usage.InputTokens)
			usage.OutputTokens = int(resp.Usage.OutputTokens)
		}
		c.inferenceLogger.LogCall(ctx, "anthropic", c.config.Model, operation, usage, latency, err, nil)
	}

	if err != nil {
		return "", fmt.Errorf("anthropic api call failed: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("no text content in response from model %s", c.config.Model)
}
