package scenario

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/Jiya-Rathi/Bot/internal/models"
)

const (
	defaultExpenseAmount      = -1000
	defaultExpenseDescription = "Additional expense"
	defaultDelayDays          = 30

	dateLayout = "2006-01-02"
)

// Normalize enforces the scenario schema over a loosely-shaped mapping:
// every recognized key present in the input comes out as a fully
// populated action, scalars are coerced into their structured form, and
// sign conventions are applied. Keys absent from the input stay absent.
// The only failure mode is an add_expense value that is neither a
// mapping nor a number.
func Normalize(raw map[string]any) (models.Scenario, error) {
	return normalizeAt(raw, time.Now())
}

// normalizeAt is Normalize with an injected clock; "tomorrow" defaults
// are relative to now.
func normalizeAt(raw map[string]any, now time.Time) (models.Scenario, error) {
	var s models.Scenario
	tomorrow := now.AddDate(0, 0, 1).Format(dateLayout)

	if v, ok := raw["add_expense"]; ok {
		expense, err := coerceAddExpense(v, tomorrow)
		if err != nil {
			return models.Scenario{}, err
		}
		s.AddExpense = expense
	}

	if v, ok := raw["delay_income"]; ok {
		s.DelayIncome = coerceDelayIncome(v)
	}

	if v, ok := raw["remove_expense"]; ok {
		s.RemoveExpense = coerceRemoveExpense(v)
	}

	return s, nil
}

func coerceAddExpense(v any, tomorrow string) (*models.AddExpense, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		// A bare number means "add an expense of this size"; anything
		// else is uncoercible.
		n, ok := asScalarNumber(v)
		if !ok {
			return nil, fmt.Errorf("add_expense is %T: %w", v, ErrInvalidScenarioShape)
		}
		return &models.AddExpense{
			Date:        tomorrow,
			Amount:      -math.Abs(n),
			Description: defaultExpenseDescription,
		}, nil
	}

	expense := &models.AddExpense{
		Date:        tomorrow,
		Amount:      defaultExpenseAmount,
		Description: defaultExpenseDescription,
	}

	if date, ok := obj["date"].(string); ok && date != "" {
		expense.Date = date
	}
	if amount, ok := asNumber(obj["amount"]); ok {
		expense.Amount = amount
	}
	if expense.Amount > 0 {
		expense.Amount = -expense.Amount
	}
	if desc, ok := obj["description"].(string); ok && desc != "" {
		expense.Description = desc
	}

	return expense, nil
}

func coerceDelayIncome(v any) *models.DelayIncome {
	if n, ok := asScalarNumber(v); ok {
		return &models.DelayIncome{Match: "", Days: int(n)}
	}

	obj, ok := v.(map[string]any)
	if !ok {
		// A bare string is read as a match filter with the default delay.
		return &models.DelayIncome{Match: fmt.Sprint(v), Days: defaultDelayDays}
	}

	delay := &models.DelayIncome{Match: "", Days: defaultDelayDays}
	if match, ok := obj["match"].(string); ok {
		delay.Match = match
	}
	if days, ok := asNumber(obj["days"]); ok {
		delay.Days = int(days)
	}
	return delay
}

func coerceRemoveExpense(v any) *models.RemoveExpense {
	obj, ok := v.(map[string]any)
	if !ok {
		return &models.RemoveExpense{Match: fmt.Sprint(v)}
	}

	remove := &models.RemoveExpense{Match: ""}
	if match, ok := obj["match"].(string); ok {
		remove.Match = match
	}
	return remove
}

// asScalarNumber recognizes genuinely numeric values. Strings stay
// strings here: a bare "30" for delay_income is a match filter, not a
// day count.
func asScalarNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// asNumber additionally tolerates numeric strings, which the model emits
// often enough inside action objects ("amount": "-2000").
func asNumber(v any) (float64, bool) {
	if f, ok := asScalarNumber(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
