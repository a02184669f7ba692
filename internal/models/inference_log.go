package models

import "time"

// InferenceLog records a single model API call made on behalf of a user
// request: scenario interpretation, forecast explanation, tax bracket
// lookup, score commentary.
type InferenceLog struct {
	ID           int       `json:"id"`
	Provider     string    `json:"provider"`  // "openai", "anthropic"
	Model        string    `json:"model"`     // provider model name
	Operation    string    `json:"operation"` // "scenario_interpretation", "forecast_explanation", ...
	TokensUsed   int       `json:"tokens_used"`
	InputTokens  *int      `json:"input_tokens"`
	OutputTokens *int      `json:"output_tokens"`
	LatencyMs    *int      `json:"latency_ms"`
	Status       string    `json:"status"` // "success", "error"
	ErrorMessage *string   `json:"error_message"`
	Metadata     string    `json:"metadata"` // JSONB metadata
	CreatedAt    time.Time `json:"created_at"`
}
