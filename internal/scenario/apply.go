package scenario

import (
	"sort"
	"time"

	"github.com/Jiya-Rathi/Bot/internal/models"
)

// applyDateLayouts are the formats accepted for add_expense dates, most
// specific first. The model is instructed to emit YYYY-MM-DD but does
// not always comply.
var applyDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

// Apply produces a new ledger reflecting the scenario's adjustments.
// The input slice is never mutated. Actions run in a fixed order
// regardless of how the scenario was expressed: add_expense, then
// delay_income, then remove_expense, each operating on the result of
// the previous step. The outcome is stable-sorted by date.
//
// A match filter that selects nothing is a no-op, not an error: a
// model-guessed filter string missing the ledger is normal. The only
// failure is an add_expense date that cannot be parsed.
func Apply(ledger []models.Transaction, s models.Scenario) ([]models.Transaction, error) {
	out := make([]models.Transaction, len(ledger))
	copy(out, ledger)

	if s.AddExpense != nil {
		date, err := parseDate(s.AddExpense.Date)
		if err != nil {
			return nil, err
		}
		out = append(out, models.Transaction{
			Date:        date,
			Amount:      s.AddExpense.Amount,
			Description: s.AddExpense.Description,
		})
	}

	if s.DelayIncome != nil {
		for i := range out {
			if !out[i].IsIncome() {
				continue
			}
			if !models.MatchesDescription(out[i].Description, s.DelayIncome.Match) {
				continue
			}
			out[i].Date = out[i].Date.AddDate(0, 0, s.DelayIncome.Days)
		}
	}

	if s.RemoveExpense != nil {
		kept := out[:0]
		for _, tx := range out {
			if tx.IsExpense() && models.MatchesDescription(tx.Description, s.RemoveExpense.Match) {
				continue
			}
			kept = append(kept, tx)
		}
		out = kept
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	return out, nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range applyDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &InvalidDateError{Value: value}
}
