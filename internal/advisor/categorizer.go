package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Jiya-Rathi/Bot/internal/llm"
	"github.com/Jiya-Rathi/Bot/internal/models"
	"github.com/Jiya-Rathi/Bot/internal/scenario"
)

const (
	categorizeMaxTokens   = 512
	categorizeTemperature = float32(0.1)

	// OtherCategory labels expenses the model could not place.
	OtherCategory = "Other"
)

// categories is the fixed label set the model chooses from. Anything
// outside the set is folded into OtherCategory so downstream totals stay
// stable across model versions.
var categories = []string{
	"Rent", "Payroll", "Marketing", "Utilities",
	"Supplies", "Travel", "Software", OtherCategory,
}

// Categorizer assigns a spending category to each expense description
// in one batched model call.
type Categorizer struct {
	client llm.Client
}

// NewCategorizer creates an expense categorizer.
func NewCategorizer(client llm.Client) *Categorizer {
	return &Categorizer{client: client}
}

// Categorize maps each distinct expense description in the ledger to a
// category label. Income transactions are ignored. The model reply is
// run through the same JSON recovery cascade as scenario output; if even
// that cannot find a JSON object, the call fails rather than inventing
// categories.
func (c *Categorizer) Categorize(ctx context.Context, transactions []models.Transaction) (map[string]string, error) {
	descriptions := distinctExpenseDescriptions(transactions)
	if len(descriptions) == 0 {
		return map[string]string{}, nil
	}

	var b strings.Builder
	b.WriteString("Categorize each business expense below into exactly one of these categories: ")
	b.WriteString(strings.Join(categories, ", "))
	b.WriteString(".\n\nExpenses:\n")
	for _, d := range descriptions {
		fmt.Fprintf(&b, "- %s\n", d)
	}
	b.WriteString("\nRespond with ONLY a JSON object mapping each expense description to its category. Double quotes, no explanation.")

	raw, err := c.client.Generate(ctx, "expense_categorization", b.String(), categorizeMaxTokens, categorizeTemperature)
	if err != nil {
		return nil, fmt.Errorf("categorize expenses: %w", err)
	}

	recovered, strategy := scenario.Recover(raw)
	if strategy == scenario.StrategyFallback {
		return nil, errors.New("model returned no category data")
	}

	out := make(map[string]string, len(descriptions))
	for _, d := range descriptions {
		out[d] = OtherCategory
		if v, ok := recovered[d].(string); ok {
			if label, known := canonicalCategory(v); known {
				out[d] = label
			}
		}
	}
	return out, nil
}

func distinctExpenseDescriptions(transactions []models.Transaction) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tx := range transactions {
		if !tx.IsExpense() || seen[tx.Description] {
			continue
		}
		seen[tx.Description] = true
		out = append(out, tx.Description)
	}
	return out
}

// canonicalCategory maps a model-supplied label onto the fixed set,
// ignoring case and surrounding whitespace.
func canonicalCategory(v string) (string, bool) {
	v = strings.TrimSpace(v)
	for _, c := range categories {
		if strings.EqualFold(c, v) {
			return c, true
		}
	}
	return "", false
}
