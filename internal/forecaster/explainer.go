package forecaster

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jiya-Rathi/Bot/internal/llm"
)

const (
	explainMaxTokens   = 256
	explainTemperature = 0.3
)

// Explainer turns a forecast curve into a short plain-language reading.
type Explainer struct {
	client llm.Client
}

// NewExplainer creates an explainer backed by the given model client.
func NewExplainer(client llm.Client) *Explainer {
	return &Explainer{client: client}
}

// Explain asks the model for a 2-4 sentence reading of the projected
// window. The prompt carries the daily figures plus summary statistics
// so the model does not have to do arithmetic.
func (e *Explainer) Explain(ctx context.Context, points []Point, horizonDays int) (string, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	start := len(points) - horizonDays
	if start < 0 {
		start = 0
	}
	window := points[start:]
	stats := Summarize(points, horizonDays)

	var b strings.Builder
	fmt.Fprintf(&b, "You are a financial advisor for a small business.\n")
	fmt.Fprintf(&b, "Here is the forecasted daily balance for the next %d days:\n\n", horizonDays)
	for _, p := range window {
		fmt.Fprintf(&b, "%s  $%.2f\n", p.Date.Format("Jan 02"), p.Balance)
	}
	fmt.Fprintf(&b, "\nSummary:\n")
	fmt.Fprintf(&b, "- Lowest balance: $%.2f\n", stats.Min)
	fmt.Fprintf(&b, "- Highest balance: $%.2f\n", stats.Max)
	fmt.Fprintf(&b, "- Average: $%.2f\n", stats.Mean)
	fmt.Fprintf(&b, "- Days with negative balance: %d\n\n", stats.NegativeDays)
	fmt.Fprintf(&b, "Please provide a short, helpful explanation and recommendation in 2-4 sentences.")

	response, err := e.client.Generate(ctx, "forecast_explanation", b.String(), explainMaxTokens, explainTemperature)
	if err != nil {
		return "", fmt.Errorf("explain forecast: %w", err)
	}
	return strings.TrimSpace(response), nil
}
