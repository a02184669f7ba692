package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"log/slog"

	"github.com/Jiya-Rathi/Bot/internal/advisor"
	"github.com/Jiya-Rathi/Bot/internal/api"
	"github.com/Jiya-Rathi/Bot/internal/bot"
	"github.com/Jiya-Rathi/Bot/internal/config"
	"github.com/Jiya-Rathi/Bot/internal/database"
	"github.com/Jiya-Rathi/Bot/internal/forecaster"
	"github.com/Jiya-Rathi/Bot/internal/inference"
	"github.com/Jiya-Rathi/Bot/internal/ledger"
	"github.com/Jiya-Rathi/Bot/internal/llm"
	"github.com/Jiya-Rathi/Bot/internal/logging"
	"github.com/Jiya-Rathi/Bot/internal/metrics"
	"github.com/Jiya-Rathi/Bot/internal/scenario"
	"github.com/Jiya-Rathi/Bot/internal/scorer"
	"github.com/Jiya-Rathi/Bot/internal/server"
	"github.com/Jiya-Rathi/Bot/internal/tax"
)

func main() {
	// Local dev convenience; production sets real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to init logger", "error", err)
		os.Exit(1)
	}

	logger.Info("starting finbot")

	// Database is optional: without one, ledgers live on the filesystem
	// and inference logging is disabled.
	var (
		store         ledger.Store
		inferenceRepo *database.InferenceLogRepository
		sqlConn       *sql.DB
	)

	if cfg.Database.URL != "" {
		sqlConn, err = database.Connect(context.Background(), cfg.Database)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		logger.Info("database connected")

		if err := database.RunMigrations(sqlConn, "./migrations", logger); err != nil {
			logger.Warn("failed to run migrations, continuing anyway", "error", err)
		}
	}

	if sqlConn != nil {
		defer sqlConn.Close()
		store = database.NewPostgresLedgerRepository(sqlConn)
		inferenceRepo = database.NewInferenceLogRepository(sqlConn)
	} else {
		fileStore, err := ledger.NewFileStore(cfg.Ledger.DataDir)
		if err != nil {
			logger.Error("failed to init ledger store", "error", err)
			os.Exit(1)
		}
		store = fileStore
		logger.Info("using filesystem ledger store", "dir", cfg.Ledger.DataDir)
	}

	// A typed nil repo must not reach the interface-valued store, or the
	// logger's nil check would pass it through.
	var logStore inference.LogStore
	if inferenceRepo != nil {
		logStore = inferenceRepo
	}
	inferenceLogger := inference.NewLogger(logStore, logger)

	llmConfig := llm.ConfigFromEnv()
	client, err := llm.New(llmConfig, inferenceLogger)
	if err != nil {
		logger.Error("failed to init model client", "error", err)
		os.Exit(1)
	}
	logger.Info("model client ready", "provider", llmConfig.Provider, "model", llmConfig.Model)

	collector, err := metrics.NewHTTPCollector()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}
	scenarioCollector, err := metrics.NewScenarioCollector(collector.Registry())
	if err != nil {
		logger.Error("failed to init scenario metrics", "error", err)
		os.Exit(1)
	}

	interpreter := scenario.NewInterpreter(client, logging.Component(logger, "scenario"), scenarioCollector)
	finbot := bot.New(
		store,
		interpreter,
		tax.NewEstimator(client),
		scorer.NewScorer(client),
		forecaster.NewExplainer(client),
		advisor.NewLoanAdvisor(client),
		advisor.NewCategorizer(client),
		logging.Component(logger, "bot"),
		scenarioCollector,
	)

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, ledger API tokens cannot be issued securely")
	}

	mux := http.NewServeMux()
	api.SetupRoutes(mux, api.Deps{
		Bot:           finbot,
		Store:         store,
		Interpreter:   interpreter,
		InferenceRepo: inferenceRepo,
		DB:            sqlConn,
		AuthConfig:    cfg.Auth,
		Collector:     collector,
		Logger:        logging.Component(logger, "api"),
	})

	srv := server.New(cfg.Server, logging.Component(logger, "http"), collector.InstrumentHandler(mux))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("received signal", "signal", sig.String())
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("finbot stopped")
}
