package models

import (
	"time"
)

// Transaction represents one ledger entry. The sign of Amount encodes
// direction: positive amounts are income/credits, negative amounts are
// expenses/debits. Dates carry day granularity only.
type Transaction struct {
	Date        time.Time `json:"date"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
}

// IsIncome reports whether the transaction is a credit.
func (t Transaction) IsIncome() bool {
	return t.Amount > 0
}

// IsExpense reports whether the transaction is a debit.
func (t Transaction) IsExpense() bool {
	return t.Amount < 0
}

// LedgerSummary aggregates a transaction collection for scoring and
// forecast prompts.
type LedgerSummary struct {
	TotalRevenue  float64 `json:"total_revenue"`
	TotalExpenses float64 `json:"total_expenses"`
	NetProfit     float64 `json:"net_profit"`
	ProfitMargin  float64 `json:"profit_margin"`
	OverdueCount  int     `json:"overdue_count"`
	Count         int     `json:"count"`
}

// Summarize computes aggregate figures over a ledger. Overdue counts
// transactions described as invoices older than 30 days relative to now.
func Summarize(ledger []Transaction, now time.Time) LedgerSummary {
	s := LedgerSummary{Count: len(ledger)}
	for _, tx := range ledger {
		if tx.Amount > 0 {
			s.TotalRevenue += tx.Amount
		} else {
			s.TotalExpenses += -tx.Amount
		}
		if containsFold(tx.Description, "invoice") && now.Sub(tx.Date) > 30*24*time.Hour {
			s.OverdueCount++
		}
	}
	s.NetProfit = s.TotalRevenue - s.TotalExpenses
	if s.TotalRevenue > 0 {
		s.ProfitMargin = s.NetProfit / s.TotalRevenue * 100
	}
	return s
}
