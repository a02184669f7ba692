package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"log/slog"

	"github.com/Jiya-Rathi/Bot/internal/auth"
	"github.com/Jiya-Rathi/Bot/internal/bot"
	"github.com/Jiya-Rathi/Bot/internal/config"
	"github.com/Jiya-Rathi/Bot/internal/database"
	"github.com/Jiya-Rathi/Bot/internal/ledger"
	"github.com/Jiya-Rathi/Bot/internal/metrics"
	"github.com/Jiya-Rathi/Bot/internal/scenario"
)

// Deps carries everything the router wires together. The db and
// inference log repo may be nil when no database is configured.
type Deps struct {
	Bot           *bot.Bot
	Store         ledger.Store
	Interpreter   *scenario.Interpreter
	InferenceRepo *database.InferenceLogRepository
	DB            *sql.DB
	AuthConfig    config.AuthConfig
	Collector     *metrics.HTTPCollector
	Logger        *slog.Logger
}

// SetupRoutes configures all API routes
func SetupRoutes(mux *http.ServeMux, deps Deps) {
	webhookHandler := NewWebhookHandler(deps.Bot, deps.Store, deps.Logger)
	authHandler := NewAuthHandler(deps.AuthConfig, deps.Logger)
	ledgerHandler := NewLedgerHandler(deps.Store, deps.Interpreter, deps.Logger)
	inferenceLogHandler := NewInferenceLogHandler(deps.InferenceRepo, deps.Logger)

	authMiddleware := auth.Middleware(deps.AuthConfig)

	// WhatsApp webhook (Twilio authenticates with its own signature;
	// the reply channel is the user's phone number).
	mux.HandleFunc("/webhook/twilio", webhookHandler.HandleMessage)

	// Authentication (public)
	mux.HandleFunc("/api/auth/login", authHandler.Login)

	// Ledger API (requires auth)
	mux.Handle("/api/ledger/", authMiddleware(http.HandlerFunc(ledgerHandler.HandleLedger)))
	mux.Handle("/api/simulate", authMiddleware(http.HandlerFunc(ledgerHandler.HandleSimulate)))
	mux.Handle("/api/inference-logs", authMiddleware(http.HandlerFunc(inferenceLogHandler.List)))

	// Operational endpoints
	mux.HandleFunc("/healthz", healthHandler(deps.DB))
	if deps.Collector != nil {
		mux.Handle("/metrics", deps.Collector.Handler())
	}
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()
			if err := database.HealthCheck(ctx, db); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}
