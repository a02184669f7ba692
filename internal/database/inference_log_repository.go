package database

import (
	"context"
	"database/sql"

	"github.com/Jiya-Rathi/Bot/internal/models"
)

// InferenceLogRepository handles inference log database operations
type InferenceLogRepository struct {
	db *sql.DB
}

// NewInferenceLogRepository creates a new repository
func NewInferenceLogRepository(db *sql.DB) *InferenceLogRepository {
	return &InferenceLogRepository{db: db}
}

// Create logs a new inference call
func (r *InferenceLogRepository) Create(ctx context.Context, log models.InferenceLog) error {
	query := `
		INSERT INTO inference_logs (
			provider, model, operation, tokens_used, input_tokens, output_tokens,
			latency_ms, status, error_message, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	var metadata any
	if log.Metadata != "" {
		metadata = log.Metadata
	}

	_, err := r.db.ExecContext(ctx, query,
		log.Provider,
		log.Model,
		log.Operation,
		log.TokensUsed,
		log.InputTokens,
		log.OutputTokens,
		log.LatencyMs,
		log.Status,
		log.ErrorMessage,
		metadata,
	)

	return err
}

// RecentByOperation retrieves the most recent logs for one operation,
// newest first.
func (r *InferenceLogRepository) RecentByOperation(ctx context.Context, operation string, limit int) ([]models.InferenceLog, error) {
	query := `
		SELECT id, provider, model, operation, tokens_used, input_tokens, output_tokens,
		       latency_ms, status, error_message, COALESCE(metadata::text, ''), created_at
		FROM inference_logs
		WHERE operation = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, operation, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.InferenceLog
	for rows.Next() {
		var log models.InferenceLog
		if err := rows.Scan(
			&log.ID,
			&log.Provider,
			&log.Model,
			&log.Operation,
			&log.TokensUsed,
			&log.InputTokens,
			&log.OutputTokens,
			&log.LatencyMs,
			&log.Status,
			&log.ErrorMessage,
			&log.Metadata,
			&log.CreatedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}
