package logging

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Jiya-Rathi/Bot/internal/config"
)

// New constructs the root slog.Logger for the service. Every reply
// pipeline component receives a child of this logger, so one inbound
// WhatsApp message can be traced across interpretation, forecasting,
// and persistence by the shared fields.
func New(cfg config.LoggingConfig) (*slog.Logger, error) {
	handler, err := buildHandler(cfg)
	if err != nil {
		return nil, err
	}

	return slog.New(handler), nil
}

// Component derives a child logger tagged with the subsystem name
// ("bot", "api", "http"). Log rows from the webhook path filter cleanly
// by this field.
func Component(logger *slog.Logger, name string) *slog.Logger {
	return logger.With("component", name)
}

func buildHandler(cfg config.LoggingConfig) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: cfg.Level}

	switch cfg.Format {
	case "json":
		return slog.NewJSONHandler(os.Stdout, opts), nil
	case "text":
		return slog.NewTextHandler(os.Stdout, opts), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}
}
