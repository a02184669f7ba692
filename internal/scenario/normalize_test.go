package scenario

import (
	"errors"
	"testing"
	"time"

	"github.com/Jiya-Rathi/Bot/internal/models"
)

var normalizeNow = time.Date(2025, 7, 14, 10, 30, 0, 0, time.UTC)

func TestNormalizeScalarExpense(t *testing.T) {
	raw := map[string]any{"add_expense": float64(2000)}

	got, err := normalizeAt(raw, normalizeNow)
	if err != nil {
		t.Fatalf("normalizeAt failed: %v", err)
	}
	if got.AddExpense == nil {
		t.Fatal("AddExpense is nil")
	}
	if got.AddExpense.Amount != -2000 {
		t.Errorf("Amount = %v, want -2000", got.AddExpense.Amount)
	}
	if got.AddExpense.Description != "Additional expense" {
		t.Errorf("Description = %q, want Additional expense", got.AddExpense.Description)
	}
	if got.AddExpense.Date != "2025-07-15" {
		t.Errorf("Date = %q, want 2025-07-15", got.AddExpense.Date)
	}
}

func TestNormalizeAddExpense(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  models.AddExpense
	}{
		{
			name: "fully specified",
			value: map[string]any{
				"date":        "2025-08-01",
				"amount":      float64(-350),
				"description": "Software License",
			},
			want: models.AddExpense{Date: "2025-08-01", Amount: -350, Description: "Software License"},
		},
		{
			name:  "positive amount negated",
			value: map[string]any{"amount": float64(750)},
			want:  models.AddExpense{Date: "2025-07-15", Amount: -750, Description: "Additional expense"},
		},
		{
			name:  "numeric string amount",
			value: map[string]any{"amount": "-2000", "description": "Equipment"},
			want:  models.AddExpense{Date: "2025-07-15", Amount: -2000, Description: "Equipment"},
		},
		{
			name:  "empty object gets defaults",
			value: map[string]any{},
			want:  models.AddExpense{Date: "2025-07-15", Amount: -1000, Description: "Additional expense"},
		},
		{
			name:  "negative scalar",
			value: float64(-600),
			want:  models.AddExpense{Date: "2025-07-15", Amount: -600, Description: "Additional expense"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeAt(map[string]any{"add_expense": tt.value}, normalizeNow)
			if err != nil {
				t.Fatalf("normalizeAt failed: %v", err)
			}
			if got.AddExpense == nil {
				t.Fatal("AddExpense is nil")
			}
			if *got.AddExpense != tt.want {
				t.Errorf("AddExpense = %+v, want %+v", *got.AddExpense, tt.want)
			}
		})
	}
}

func TestNormalizeAddExpenseInvalidShape(t *testing.T) {
	for _, value := range []any{"surprise", true, []any{1, 2}} {
		_, err := normalizeAt(map[string]any{"add_expense": value}, normalizeNow)
		if !errors.Is(err, ErrInvalidScenarioShape) {
			t.Errorf("add_expense=%v: err = %v, want ErrInvalidScenarioShape", value, err)
		}
	}
}

func TestNormalizeDelayIncome(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  models.DelayIncome
	}{
		{
			name:  "scalar number is a day count",
			value: float64(15),
			want:  models.DelayIncome{Match: "", Days: 15},
		},
		{
			name:  "bare string is a match filter",
			value: "Client A",
			want:  models.DelayIncome{Match: "Client A", Days: 30},
		},
		{
			name:  "numeric string stays a match filter",
			value: "30",
			want:  models.DelayIncome{Match: "30", Days: 30},
		},
		{
			name:  "object with both fields",
			value: map[string]any{"match": "invoice", "days": float64(7)},
			want:  models.DelayIncome{Match: "invoice", Days: 7},
		},
		{
			name:  "object missing days",
			value: map[string]any{"match": "rent"},
			want:  models.DelayIncome{Match: "rent", Days: 30},
		},
		{
			name:  "empty object",
			value: map[string]any{},
			want:  models.DelayIncome{Match: "", Days: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeAt(map[string]any{"delay_income": tt.value}, normalizeNow)
			if err != nil {
				t.Fatalf("normalizeAt failed: %v", err)
			}
			if got.DelayIncome == nil {
				t.Fatal("DelayIncome is nil")
			}
			if *got.DelayIncome != tt.want {
				t.Errorf("DelayIncome = %+v, want %+v", *got.DelayIncome, tt.want)
			}
		})
	}
}

func TestNormalizeRemoveExpense(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  models.RemoveExpense
	}{
		{name: "bare string", value: "ad spend", want: models.RemoveExpense{Match: "ad spend"}},
		{name: "object", value: map[string]any{"match": "Coffee"}, want: models.RemoveExpense{Match: "Coffee"}},
		{name: "empty object", value: map[string]any{}, want: models.RemoveExpense{Match: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeAt(map[string]any{"remove_expense": tt.value}, normalizeNow)
			if err != nil {
				t.Fatalf("normalizeAt failed: %v", err)
			}
			if got.RemoveExpense == nil {
				t.Fatal("RemoveExpense is nil")
			}
			if *got.RemoveExpense != tt.want {
				t.Errorf("RemoveExpense = %+v, want %+v", *got.RemoveExpense, tt.want)
			}
		})
	}
}

func TestNormalizeAbsentKeysStayAbsent(t *testing.T) {
	got, err := normalizeAt(map[string]any{"delay_income": float64(5)}, normalizeNow)
	if err != nil {
		t.Fatalf("normalizeAt failed: %v", err)
	}
	if got.AddExpense != nil {
		t.Errorf("AddExpense = %+v, want nil", got.AddExpense)
	}
	if got.RemoveExpense != nil {
		t.Errorf("RemoveExpense = %+v, want nil", got.RemoveExpense)
	}

	empty, err := normalizeAt(map[string]any{"unrelated": "noise"}, normalizeNow)
	if err != nil {
		t.Fatalf("normalizeAt failed: %v", err)
	}
	if !empty.IsEmpty() {
		t.Errorf("scenario = %+v, want empty", empty)
	}
}
