package scenario

import (
	"context"
	"log/slog"

	"github.com/Jiya-Rathi/Bot/internal/llm"
	"github.com/Jiya-Rathi/Bot/internal/models"
)

const (
	// interpretMaxTokens bounds the completion; a scenario object is
	// small and longer output is usually prose the model was told not
	// to emit.
	interpretMaxTokens = 300

	// interpretTemperature keeps sampling near-deterministic to
	// minimize output variance.
	interpretTemperature = 0.1
)

// RecoveryObserver receives the strategy that produced each recovered
// scenario, for metrics.
type RecoveryObserver interface {
	RecordRecovery(strategy string)
}

// Interpreter converts free-form what-if questions into canonical
// scenarios. It is stateless and safe to retry; retry policy belongs to
// the caller.
type Interpreter struct {
	client   llm.Client
	logger   *slog.Logger
	observer RecoveryObserver
}

// NewInterpreter creates an interpreter backed by the given model
// client. The observer may be nil.
func NewInterpreter(client llm.Client, logger *slog.Logger, observer RecoveryObserver) *Interpreter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interpreter{client: client, logger: logger, observer: observer}
}

// Interpret runs one prompt → model → recover → normalize round trip.
// Recovery is total, so the only error sources are the model call
// itself and an uncoercible add_expense shape; both come back as an
// InterpretationError carrying the raw model output for diagnostics.
func (i *Interpreter) Interpret(ctx context.Context, userText string) (models.Scenario, error) {
	prompt := BuildScenarioPrompt(userText)

	raw, err := i.client.Generate(ctx, "scenario_interpretation", prompt, interpretMaxTokens, interpretTemperature)
	if err != nil {
		return models.Scenario{}, &InterpretationError{Err: err}
	}

	recovered, strategy := Recover(raw)
	if i.observer != nil {
		i.observer.RecordRecovery(string(strategy))
	}
	switch strategy {
	case StrategyDirect:
		// Well-formed output, nothing to report.
	case StrategyFallback:
		// The generic fallback scenario fabricates intent; make sure
		// operators can see what the model actually said.
		i.logger.Warn("scenario recovery exhausted, using fallback",
			"raw_output", raw)
	default:
		i.logger.Info("scenario recovered from malformed output",
			"strategy", strategy)
	}

	sc, err := Normalize(recovered)
	if err != nil {
		return models.Scenario{}, &InterpretationError{RawOutput: raw, Err: err}
	}

	return sc, nil
}
