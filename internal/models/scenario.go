package models

import (
	"strings"
)

// Scenario is a structured what-if command derived from natural language.
// Each action is optional and independent; all present actions apply to
// one ledger in a fixed order. A nil action means the key was absent
// from the interpreted output.
type Scenario struct {
	AddExpense    *AddExpense    `json:"add_expense,omitempty"`
	DelayIncome   *DelayIncome   `json:"delay_income,omitempty"`
	RemoveExpense *RemoveExpense `json:"remove_expense,omitempty"`
}

// AddExpense appends one new expense transaction to the ledger.
// After normalization Amount is always <= 0 and Date/Description are
// always populated.
type AddExpense struct {
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// DelayIncome shifts matching income transactions forward in time.
// An empty Match applies to every income transaction.
type DelayIncome struct {
	Match string `json:"match"`
	Days  int    `json:"days"`
}

// RemoveExpense drops matching expense transactions from the ledger.
// An empty Match removes every expense transaction.
type RemoveExpense struct {
	Match string `json:"match"`
}

// IsEmpty reports whether the scenario carries no actions at all.
func (s Scenario) IsEmpty() bool {
	return s.AddExpense == nil && s.DelayIncome == nil && s.RemoveExpense == nil
}

// containsFold reports whether substr occurs in s, case-insensitively.
// Shared by scenario matching and ledger summaries; match filters coming
// out of the model are substring-based with no word-boundary logic, so
// "tax" also matches "Taxi fare". That imprecision is accepted.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// MatchesDescription reports whether the filter string matches a
// transaction description. An empty filter matches everything.
func MatchesDescription(description, match string) bool {
	if match == "" {
		return true
	}
	return containsFold(description, match)
}
