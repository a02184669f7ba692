package llm

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Jiya-Rathi/Bot/internal/inference"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient generates completions through the OpenAI chat API.
type OpenAIClient struct {
	client          *openai.Client
	config          Config
	inferenceLogger *inference.Logger
}

// NewOpenAIClient creates an OpenAI-backed model client.
func NewOpenAIClient(config Config, logger *inference.Logger) *OpenAIClient {
	return &OpenAIClient{
		client:          openai.NewClient(config.APIKey),
		config:          config,
		inferenceLogger: logger,
	}
}

// Generate submits the prompt as a single user message and returns the
// raw completion text. Rate-limit errors are retried with exponential
// backoff and jitter; every attempt is recorded by the inference logger.
func (c *OpenAIClient) Generate(ctx context.Context, operation, prompt string, maxTokens int, temperature float32) (string, error) {
	timeout := time.Duration(c.config.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	const maxRetries = 3
	baseDelay := 1 * time.Second

	var resp openai.ChatCompletionResponse
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		apiCtx, cancel := context.WithTimeout(ctx, timeout)

		start := time.Now()
		resp, err = c.client.CreateChatCompletion(apiCtx, openai.ChatCompletionRequest{
			Model:               c.config.Model,
			Temperature:         temperature,
			MaxCompletionTokens: maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		})
		latency := time.Since(start)
		cancel()

		if c.inferenceLogger != nil {
			usage := inference.Usage{}
			if err == nil {
				usage.InputTokens = resp.Usage.PromptTokens
				usage.OutputTokens = resp.Usage.CompletionTokens
			}
			c.inferenceLogger.LogCall(ctx, "openai", c.config.Model, operation, usage, latency, err, map[string]any{
				"attempt": attempt + 1,
			})
		}

		if err == nil {
			break
		}

		if !isRateLimited(err) || attempt == maxRetries-1 {
			break
		}

		delay := baseDelay * time.Duration(1<<uint(attempt))
		delay += time.Duration(rand.Intn(500)) * time.Millisecond
		time.Sleep(delay)
	}

	if err != nil {
		return "", fmt.Errorf("openai api call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned from model %s", c.config.Model)
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty response from model %s (finish_reason: %s)", c.config.Model, resp.Choices[0].FinishReason)
	}

	return content, nil
}

func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "Too Many Requests") ||
		strings.Contains(msg, "Rate limit")
}
