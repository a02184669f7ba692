package inference

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Jiya-Rathi/Bot/internal/models"
)

// LogStore persists inference log rows.
type LogStore interface {
	Create(ctx context.Context, log models.InferenceLog) error
}

// Logger records model API calls to the database so operators can audit
// usage and diagnose bad interpretations from the raw call record.
type Logger struct {
	store  LogStore
	logger *slog.Logger
}

// NewLogger creates a new inference logger.
func NewLogger(store LogStore, logger *slog.Logger) *Logger {
	return &Logger{store: store, logger: logger}
}

// Usage carries token counts for one call; zero values are fine when a
// provider omits them on error.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// LogCall records one model invocation. Persistence happens
// asynchronously so a slow log store never blocks a user reply.
func (l *Logger) LogCall(ctx context.Context, provider, model, operation string, usage Usage, latency time.Duration, callErr error, metadata map[string]any) {
	if l == nil || l.store == nil {
		return
	}

	var metadataJSON string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	latencyMs := int(latency.Milliseconds())
	row := models.InferenceLog{
		Provider:     provider,
		Model:        model,
		Operation:    operation,
		TokensUsed:   usage.InputTokens + usage.OutputTokens,
		InputTokens:  &usage.InputTokens,
		OutputTokens: &usage.OutputTokens,
		LatencyMs:    &latencyMs,
		Status:       "success",
		Metadata:     metadataJSON,
	}

	if callErr != nil {
		row.Status = "error"
		msg := callErr.Error()
		row.ErrorMessage = &msg
	}

	go func() {
		if err := l.store.Create(context.Background(), row); err != nil {
			l.logger.Error("failed to log inference call", "error", err)
		}
	}()
}
