package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/Jiya-Rathi/Bot/internal/forecaster"
	"github.com/Jiya-Rathi/Bot/internal/ledger"
	"github.com/Jiya-Rathi/Bot/internal/models"
	"github.com/Jiya-Rathi/Bot/internal/scenario"
)

// LedgerHandler serves the authenticated ledger API: reading and
// replacing a user's ledger, and running what-if scenarios without
// going through WhatsApp.
type LedgerHandler struct {
	store       ledger.Store
	interpreter *scenario.Interpreter
	logger      *slog.Logger
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(store ledger.Store, interpreter *scenario.Interpreter, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{store: store, interpreter: interpreter, logger: logger}
}

// LedgerResponse wraps a user's transactions with summary figures.
type LedgerResponse struct {
	UserID       string               `json:"user_id"`
	Transactions []models.Transaction `json:"transactions"`
	Summary      models.LedgerSummary `json:"summary"`
}

// HandleLedger serves GET and PUT /api/ledger/{userID}.
func (h *LedgerHandler) HandleLedger(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimPrefix(r.URL.Path, "/api/ledger/")
	if userID == "" || strings.Contains(userID, "/") {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getLedger(w, r, userID)
	case http.MethodPut:
		h.putLedger(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *LedgerHandler) getLedger(w http.ResponseWriter, r *http.Request, userID string) {
	transactions, err := h.store.Load(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "Ledger not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load ledger", "user_id", userID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, LedgerResponse{
		UserID:       userID,
		Transactions: transactions,
		Summary:      models.Summarize(transactions, time.Now()),
	})
}

func (h *LedgerHandler) putLedger(w http.ResponseWriter, r *http.Request, userID string) {
	var transactions []models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&transactions); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.Save(r.Context(), userID, transactions); err != nil {
		h.logger.Error("failed to save ledger", "user_id", userID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SimulateRequest is a what-if question against a stored ledger.
type SimulateRequest struct {
	UserID   string `json:"user_id"`
	Question string `json:"question"`
}

// SimulateResponse carries the interpreted scenario, the adjusted
// ledger, and the projected balance curve.
type SimulateResponse struct {
	Scenario models.Scenario      `json:"scenario"`
	Adjusted []models.Transaction `json:"adjusted"`
	Forecast []forecaster.Point   `json:"forecast"`
}

// HandleSimulate serves POST /api/simulate.
func (h *LedgerHandler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.Question == "" {
		http.Error(w, "user_id and question are required", http.StatusBadRequest)
		return
	}

	transactions, err := h.store.Load(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "Ledger not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load ledger", "user_id", req.UserID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	sc, err := h.interpreter.Interpret(r.Context(), req.Question)
	if err != nil {
		h.logger.Error("scenario interpretation failed", "error", err)
		http.Error(w, "Could not interpret scenario", http.StatusUnprocessableEntity)
		return
	}

	adjusted, err := scenario.Apply(transactions, sc)
	if err != nil {
		var dateErr *scenario.InvalidDateError
		if errors.As(err, &dateErr) {
			http.Error(w, "Invalid scenario date: "+dateErr.Value, http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error("scenario application failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	points, err := forecaster.Forecast(adjusted, forecaster.DefaultHorizonDays)
	if err != nil {
		points = nil
	}

	writeJSON(w, SimulateResponse{Scenario: sc, Adjusted: adjusted, Forecast: points})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}
