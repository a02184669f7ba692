package scorer

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jiya-Rathi/Bot/internal/llm"
	"github.com/Jiya-Rathi/Bot/internal/models"
)

const (
	commentaryMaxTokens   = 200
	commentaryTemperature = 0.3
)

// Score grades financial health 0-100 from ledger aggregates. The rules
// are deliberately simple: profitability and margin carry most of the
// weight, overdue invoices bleed points.
func Score(summary models.LedgerSummary) int {
	score := 50

	switch {
	case summary.ProfitMargin >= 30:
		score += 30
	case summary.ProfitMargin >= 15:
		score += 20
	case summary.ProfitMargin > 0:
		score += 10
	case summary.NetProfit < 0:
		score -= 20
	}

	if summary.NetProfit > 0 {
		score += 10
	}

	if summary.TotalRevenue > 0 && summary.TotalExpenses/summary.TotalRevenue > 0.9 {
		score -= 10
	}

	score -= 5 * summary.OverdueCount

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Scorer pairs the rule-based grade with model-written commentary.
type Scorer struct {
	client llm.Client
}

// NewScorer creates a scorer backed by the given model client.
func NewScorer(client llm.Client) *Scorer {
	return &Scorer{client: client}
}

// Result is a graded ledger with commentary.
type Result struct {
	Score      int
	Commentary string
}

// ScoreWithCommentary grades the ledger and asks the model to explain
// the grade in the owner's terms. Commentary is best effort; a model
// failure falls back to a canned line rather than failing the score.
func (s *Scorer) ScoreWithCommentary(ctx context.Context, summary models.LedgerSummary) Result {
	score := Score(summary)

	prompt := fmt.Sprintf(`You are a financial advisor for a small business. The business scored %d/100 on financial health.
Figures:
- Total revenue: $%.2f
- Total expenses: $%.2f
- Net profit: $%.2f
- Profit margin: %.1f%%
- Overdue invoices: %d

In 2-3 sentences, explain the score and give one concrete recommendation.`,
		score, summary.TotalRevenue, summary.TotalExpenses, summary.NetProfit, summary.ProfitMargin, summary.OverdueCount)

	commentary, err := s.client.Generate(ctx, "score_commentary", prompt, commentaryMaxTokens, commentaryTemperature)
	if err != nil {
		commentary = "Commentary is unavailable right now; the score above is computed from your ledger."
	}

	return Result{Score: score, Commentary: strings.TrimSpace(commentary)}
}
