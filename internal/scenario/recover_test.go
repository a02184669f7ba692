package scenario

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestRecoverValidInputMatchesDirectParse(t *testing.T) {
	inputs := []string{
		`{"add_expense": {"date": "2025-07-01", "amount": -2000, "description": "Equipment Purchase"}}`,
		`{"delay_income": {"match": "Client A", "days": 15}, "remove_expense": {"match": ""}}`,
		`  {"remove_expense": {"match": "Ad Spend"}}  `,
		`{}`,
	}

	for _, input := range inputs {
		var want map[string]any
		if err := json.Unmarshal([]byte(input), &want); err != nil {
			t.Fatalf("test input is not valid JSON: %v", err)
		}

		got, strategy := Recover(input)
		if strategy != StrategyDirect {
			t.Errorf("Recover(%q) used strategy %q, want direct", input, strategy)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Recover(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestRecoverDoubledBraceRepair(t *testing.T) {
	input := `{"add_expense": {"date": "2025-07-01", "amount": -2000, "description": "Equipment Purchase"}}}, "delay_income": {"match": "Client A", "days": 15}}`

	got, strategy := Recover(input)
	if strategy != StrategyRepaired {
		t.Fatalf("strategy = %q, want repaired", strategy)
	}

	expense, ok := got["add_expense"].(map[string]any)
	if !ok {
		t.Fatalf("add_expense missing or wrong type: %v", got)
	}
	if expense["description"] != "Equipment Purchase" {
		t.Errorf("description = %v, want Equipment Purchase", expense["description"])
	}
	if expense["amount"] != float64(-2000) {
		t.Errorf("amount = %v, want -2000", expense["amount"])
	}

	delay, ok := got["delay_income"].(map[string]any)
	if !ok {
		t.Fatalf("delay_income lost during repair: %v", got)
	}
	if delay["match"] != "Client A" {
		t.Errorf("match = %v, want Client A", delay["match"])
	}
	if delay["days"] != float64(15) {
		t.Errorf("days = %v, want 15", delay["days"])
	}
}

func TestRecoverFallbackOnProse(t *testing.T) {
	got, strategy := Recover("not json at all")
	if strategy != StrategyFallback {
		t.Fatalf("strategy = %q, want fallback", strategy)
	}

	want := map[string]any{
		"add_expense": map[string]any{
			"description": "General expense",
			"amount":      float64(-1000),
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fallback scenario = %v, want %v", got, want)
	}
}

func TestRecoverStrategies(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		strategy Strategy
	}{
		{
			name:     "bom prefixed",
			input:    "\uFEFF{\"remove_expense\": {\"match\": \"ads\"}}",
			strategy: StrategyCleaned,
		},
		{
			name:     "markdown fenced",
			input:    "```json\n{\"remove_expense\": {\"match\": \"ads\"}}\n```",
			strategy: StrategyExtracted,
		},
		{
			name:     "surrounded by prose",
			input:    "Here is the scenario you asked for: {\"delay_income\": {\"match\": \"rent\", \"days\": 7}} Let me know!",
			strategy: StrategyExtracted,
		},
		{
			name:     "truncated object",
			input:    `{"add_expense": {"amount": -5`,
			strategy: StrategyRepaired,
		},
		{
			name:     "single quoted",
			input:    `{'delay_income': {'match': 'rent', 'days': 10}}`,
			strategy: StrategyRepaired,
		},
		{
			name:     "trailing commas",
			input:    `{"remove_expense": {"match": "ads",},}`,
			strategy: StrategyRepaired,
		},
		{
			name:     "missing opening brace",
			input:    `"delay_income": {"days": 5}}`,
			strategy: StrategyRepaired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, strategy := Recover(tt.input)
			if strategy != tt.strategy {
				t.Errorf("strategy = %q, want %q", strategy, tt.strategy)
			}
			if len(got) == 0 {
				t.Errorf("recovered mapping is empty")
			}
		})
	}
}

func TestRecoverNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t  ",
		"not json at all",
		"[1, 2, 3]",
		"42",
		`"just a string"`,
		"{{{{",
		"}}}}",
		`{"a": `,
		"null",
	}

	for _, input := range inputs {
		got, _ := Recover(input)
		if len(got) == 0 {
			t.Errorf("Recover(%q) = %v, want non-empty mapping", input, got)
		}
	}
}

func TestRecoverBraceGarbageFallsThrough(t *testing.T) {
	// Brace-only input repairs to "{}", which carries no scenario and
	// must not short-circuit the terminal fallback.
	for _, input := range []string{"}}}", "}}}}", "{", "{}}"} {
		got, strategy := Recover(input)
		if strategy != StrategyFallback {
			t.Errorf("Recover(%q) used strategy %q, want fallback", input, strategy)
		}
		if _, ok := got["add_expense"]; !ok {
			t.Errorf("Recover(%q) = %v, want fallback scenario", input, got)
		}
	}
}
