package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/Jiya-Rathi/Bot/internal/advisor"
	"github.com/Jiya-Rathi/Bot/internal/forecaster"
	"github.com/Jiya-Rathi/Bot/internal/ledger"
	"github.com/Jiya-Rathi/Bot/internal/models"
	"github.com/Jiya-Rathi/Bot/internal/scenario"
	"github.com/Jiya-Rathi/Bot/internal/scorer"
	"github.com/Jiya-Rathi/Bot/internal/tax"
)

// ApplicationObserver counts scenario applications, for metrics.
type ApplicationObserver interface {
	RecordApplication(outcome string)
}

// Bot routes inbound WhatsApp messages to the right capability by
// keyword and renders plain-text replies. It holds no per-conversation
// state; everything derives from the user's stored ledger.
type Bot struct {
	store       ledger.Store
	interpreter *scenario.Interpreter
	estimator   *tax.Estimator
	scorer      *scorer.Scorer
	explainer   *forecaster.Explainer
	loans       *advisor.LoanAdvisor
	categorizer *advisor.Categorizer
	logger      *slog.Logger
	observer    ApplicationObserver

	now func() time.Time
}

// New creates a bot. The observer may be nil.
func New(store ledger.Store, interpreter *scenario.Interpreter, estimator *tax.Estimator, sc *scorer.Scorer, explainer *forecaster.Explainer, loans *advisor.LoanAdvisor, categorizer *advisor.Categorizer, logger *slog.Logger, observer ApplicationObserver) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		store:       store,
		interpreter: interpreter,
		estimator:   estimator,
		scorer:      sc,
		explainer:   explainer,
		loans:       loans,
		categorizer: categorizer,
		logger:      logger,
		observer:    observer,
		now:         time.Now,
	}
}

const helpReply = "I didn't understand.\n" +
	"Try:\n" +
	"- 'loan' for loan help\n" +
	"- 'score' for financial health\n" +
	"- 'forecast' to predict cash flow\n" +
	"- 'insight' for a forecast explanation\n" +
	"- 'tax <country>' to estimate taxes\n" +
	"- 'categorize' to sort your expenses\n" +
	"- 'simulate <scenario>' or 'what if ...' to test a what-if situation"

// HandleMessage routes one inbound message and returns the reply text.
// It never returns an error: failures become apologetic replies so the
// user always hears back.
func (b *Bot) HandleMessage(ctx context.Context, userID, body string) string {
	text := strings.ToLower(strings.TrimSpace(body))

	// Loan advice reads nothing from the ledger, so it works before the
	// user has sent one.
	if strings.Contains(text, "loan") {
		return b.handleLoan(ctx, body)
	}

	transactions, err := b.store.Load(ctx, userID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return "I don't have a ledger for you yet. Send your transactions as a CSV attachment to get started."
		}
		b.logger.Error("failed to load ledger", "user_id", userID, "error", err)
		return "Sorry, I couldn't read your ledger right now. Please try again in a moment."
	}

	switch {
	case strings.Contains(text, "score"):
		return b.handleScore(ctx, transactions)

	case strings.Contains(text, "tax"):
		return b.handleTax(ctx, text, transactions)

	case strings.Contains(text, "forecast"), strings.Contains(text, "predict"):
		return b.handleForecast(transactions)

	case strings.Contains(text, "insight"):
		return b.handleInsight(ctx, transactions)

	case strings.Contains(text, "categor"):
		return b.handleCategorize(ctx, transactions)

	case strings.Contains(text, "simulate"), strings.Contains(text, "what if"):
		return b.handleSimulate(ctx, body, transactions)

	default:
		return helpReply
	}
}

func (b *Bot) handleLoan(ctx context.Context, body string) string {
	answer, err := b.loans.Advise(ctx, body)
	if err != nil {
		b.logger.Error("loan advice failed", "error", err)
		return "Sorry, I couldn't retrieve loan information at the moment."
	}
	return answer
}

// handleCategorize renders per-category expense totals, largest first.
func (b *Bot) handleCategorize(ctx context.Context, transactions []models.Transaction) string {
	labels, err := b.categorizer.Categorize(ctx, transactions)
	if err != nil {
		b.logger.Error("expense categorization failed", "error", err)
		return "Sorry, I couldn't categorize your expenses right now. Please try again later."
	}
	if len(labels) == 0 {
		return "There are no expenses in your ledger to categorize."
	}

	totals := make(map[string]float64)
	for _, tx := range transactions {
		if tx.IsExpense() {
			totals[labels[tx.Description]] += -tx.Amount
		}
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if totals[names[i]] != totals[names[j]] {
			return totals[names[i]] > totals[names[j]]
		}
		return names[i] < names[j]
	})

	var sb strings.Builder
	sb.WriteString("Expenses by category:\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "- %s: $%.2f\n", name, totals[name])
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (b *Bot) handleScore(ctx context.Context, transactions []models.Transaction) string {
	summary := models.Summarize(transactions, b.now())
	result := b.scorer.ScoreWithCommentary(ctx, summary)
	return fmt.Sprintf("Financial Score: %d/100\n%s", result.Score, result.Commentary)
}

func (b *Bot) handleTax(ctx context.Context, text string, transactions []models.Transaction) string {
	country := titleCase(strings.TrimSpace(strings.Replace(text, "tax", "", 1)))
	if country == "" {
		return "Tell me the country too, like 'tax United States'."
	}

	summary := models.Summarize(transactions, b.now())
	estimate, err := b.estimator.Estimate(ctx, summary.NetProfit, country)
	if err != nil {
		b.logger.Error("tax estimation failed", "country", country, "error", err)
		return fmt.Sprintf("Sorry, I couldn't estimate %s taxes right now. Please try again later.", country)
	}

	return fmt.Sprintf("%s Tax:\n- Net Profit: $%.2f\n- Tax Owed: $%.2f\n%s",
		country, estimate.AnnualNetProfit, estimate.EstimatedTax, estimate.Breakdown)
}

func (b *Bot) handleForecast(transactions []models.Transaction) string {
	points, err := forecaster.Forecast(transactions, forecaster.DefaultHorizonDays)
	if err != nil {
		return "I need some transactions before I can forecast. Send your ledger first."
	}
	return forecaster.Summary(points, forecaster.DefaultHorizonDays)
}

func (b *Bot) handleInsight(ctx context.Context, transactions []models.Transaction) string {
	points, err := forecaster.Forecast(transactions, forecaster.DefaultHorizonDays)
	if err != nil {
		return "I need some transactions before I can forecast. Send your ledger first."
	}
	explanation, err := b.explainer.Explain(ctx, points, forecaster.DefaultHorizonDays)
	if err != nil {
		b.logger.Error("forecast explanation failed", "error", err)
		return "Sorry, I couldn't explain the forecast right now. Try 'forecast' for the numbers."
	}
	return explanation
}

// handleSimulate runs the full what-if round trip: interpret the
// question, apply the scenario to a copy of the ledger, forecast the
// adjusted ledger, and explain the result. The stored ledger is never
// modified.
func (b *Bot) handleSimulate(ctx context.Context, body string, transactions []models.Transaction) string {
	sc, err := b.interpreter.Interpret(ctx, body)
	if err != nil {
		b.logger.Error("scenario interpretation failed", "error", err)
		b.recordApplication("interpret_error")
		return "Sorry, I couldn't work out that scenario. Try something like 'what if Client A pays 15 days late?'"
	}

	adjusted, err := scenario.Apply(transactions, sc)
	if err != nil {
		var dateErr *scenario.InvalidDateError
		if errors.As(err, &dateErr) {
			b.recordApplication("invalid_date")
			return fmt.Sprintf("I couldn't read the date %q in that scenario. Use a format like 2025-07-01.", dateErr.Value)
		}
		b.logger.Error("scenario application failed", "error", err)
		b.recordApplication("error")
		return "Sorry, I couldn't apply that scenario to your ledger."
	}
	b.recordApplication("success")

	points, err := forecaster.Forecast(adjusted, forecaster.DefaultHorizonDays)
	if err != nil {
		return "The scenario left the ledger empty, so there is nothing to forecast."
	}

	explanation, err := b.explainer.Explain(ctx, points, forecaster.DefaultHorizonDays)
	if err != nil {
		b.logger.Error("forecast explanation failed", "error", err)
		return forecaster.Summary(points, forecaster.DefaultHorizonDays)
	}
	return explanation
}

func (b *Bot) recordApplication(outcome string) {
	if b.observer != nil {
		b.observer.RecordApplication(outcome)
	}
}

// titleCase uppercases the first letter of each word; country names
// arrive lowercased from keyword matching.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
