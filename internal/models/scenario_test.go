package models

import "testing"

func TestMatchesDescription(t *testing.T) {
	tests := []struct {
		name        string
		description string
		match       string
		want        bool
	}{
		{"empty filter matches everything", "Rent", "", true},
		{"case insensitive substring", "Invoice #42 - Client A", "client a", true},
		{"mid-word substring", "Taxi fare", "tax", true},
		{"no match", "Rent", "payroll", false},
		{"filter longer than description", "Ads", "ad spend", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchesDescription(tc.description, tc.match); got != tc.want {
				t.Errorf("MatchesDescription(%q, %q) = %v, want %v", tc.description, tc.match, got, tc.want)
			}
		})
	}
}

func TestScenarioIsEmpty(t *testing.T) {
	if !(Scenario{}).IsEmpty() {
		t.Error("zero scenario should be empty")
	}
	if (Scenario{RemoveExpense: &RemoveExpense{}}).IsEmpty() {
		t.Error("scenario with an action should not be empty")
	}
}
