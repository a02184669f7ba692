package api

import (
	"net/http"
	"strconv"

	"log/slog"

	"github.com/Jiya-Rathi/Bot/internal/database"
)

// InferenceLogHandler exposes recent model-call records for auditing.
type InferenceLogHandler struct {
	repo   *database.InferenceLogRepository
	logger *slog.Logger
}

// NewInferenceLogHandler creates a new inference log handler.
func NewInferenceLogHandler(repo *database.InferenceLogRepository, logger *slog.Logger) *InferenceLogHandler {
	return &InferenceLogHandler{repo: repo, logger: logger}
}

// List serves GET /api/inference-logs?operation=...&limit=N.
func (h *InferenceLogHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.repo == nil {
		http.Error(w, "Inference logging is not configured", http.StatusServiceUnavailable)
		return
	}

	operation := r.URL.Query().Get("operation")
	if operation == "" {
		http.Error(w, "operation query parameter is required", http.StatusBadRequest)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			http.Error(w, "limit must be between 1 and 500", http.StatusBadRequest)
			return
		}
		limit = n
	}

	logs, err := h.repo.RecentByOperation(r.Context(), operation, limit)
	if err != nil {
		h.logger.Error("failed to list inference logs", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, logs)
}
