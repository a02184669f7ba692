package tax

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/Jiya-Rathi/Bot/internal/llm"
	"github.com/Jiya-Rathi/Bot/internal/scenario"
)

const (
	fetchMaxTokens   = 500
	fetchTemperature = 0.1

	breakdownMaxTokens   = 256
	breakdownTemperature = 0.3
)

// Bracket is one progressive tax band. A nil MaxIncome means unbounded.
type Bracket struct {
	MinIncome float64  `json:"min_income"`
	MaxIncome *float64 `json:"max_income"`
	Rate      float64  `json:"rate"`
}

// Deduction is a named relief with either a flat cap or a percentage.
type Deduction struct {
	Name      string   `json:"name"`
	MaxAmount *float64 `json:"max_amount"`
	Percent   *float64 `json:"percent"`
}

// Subsidy is a named credit or grant program.
type Subsidy struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Data is the per-country tax structure the model returns.
type Data struct {
	Brackets   []Bracket   `json:"brackets"`
	Deductions []Deduction `json:"deductions"`
	Subsidies  []Subsidy   `json:"subsidies"`
}

// Estimate is the result of a tax estimation for one country.
type Estimate struct {
	AnnualNetProfit   float64
	EstimatedTax      float64
	Brackets          []Bracket
	Deductions        []Deduction
	Subsidies         []Subsidy
	AppliedDeductions []string
	Breakdown         string
}

// Estimator fetches SMB tax structures per country from the model and
// computes progressive tax on an annual net profit. Bracket data is
// cached per country for the estimator's lifetime so repeated questions
// about the same country cost one model call.
type Estimator struct {
	client llm.Client

	mu    sync.Mutex
	cache map[string]Data
}

// NewEstimator creates an estimator backed by the given model client.
func NewEstimator(client llm.Client) *Estimator {
	return &Estimator{client: client, cache: make(map[string]Data)}
}

// Estimate computes the estimated tax owed on annualNetProfit in the
// given country. The natural-language breakdown is best effort: a
// failed second model call degrades it, never the numbers.
func (e *Estimator) Estimate(ctx context.Context, annualNetProfit float64, country string) (Estimate, error) {
	data, err := e.taxData(ctx, country)
	if err != nil {
		return Estimate{}, fmt.Errorf("could not fetch tax brackets for %s: %w", country, err)
	}

	estimated := calculateTax(annualNetProfit, data.Brackets)

	var applied []string
	for _, d := range data.Deductions {
		switch {
		case d.MaxAmount != nil && annualNetProfit > *d.MaxAmount:
			applied = append(applied, fmt.Sprintf("%s: -$%.2f", d.Name, *d.MaxAmount))
		case d.Percent != nil:
			applied = append(applied, fmt.Sprintf("%s: -$%.2f", d.Name, annualNetProfit**d.Percent))
		}
	}

	breakdown, err := e.breakdown(ctx, country, annualNetProfit, estimated, data)
	if err != nil {
		breakdown = fmt.Sprintf("(explanation unavailable: %v)", err)
	}

	return Estimate{
		AnnualNetProfit:   annualNetProfit,
		EstimatedTax:      estimated,
		Brackets:          data.Brackets,
		Deductions:        data.Deductions,
		Subsidies:         data.Subsidies,
		AppliedDeductions: applied,
		Breakdown:         breakdown,
	}, nil
}

func (e *Estimator) taxData(ctx context.Context, country string) (Data, error) {
	key := strings.ToLower(strings.TrimSpace(country))

	e.mu.Lock()
	cached, ok := e.cache[key]
	e.mu.Unlock()
	if ok {
		return cached, nil
	}

	prompt := fmt.Sprintf(`Return the small-business tax structure for %s as a JSON object with:
1) "brackets": list of objects with "min_income", "max_income", "rate" (decimal, e.g. 0.05 for 5%%).
2) "deductions": list of objects with "name" and "max_amount" or "percent".
3) "subsidies": list of objects with "name" and "description".

Use null for unlimited maximum income. Respond with JSON only, no explanation.`, country)

	raw, err := e.client.Generate(ctx, "tax_brackets", prompt, fetchMaxTokens, fetchTemperature)
	if err != nil {
		return Data{}, err
	}

	data, err := parseTaxData(raw)
	if err != nil {
		return Data{}, err
	}

	e.mu.Lock()
	e.cache[key] = data
	e.mu.Unlock()

	return data, nil
}

// parseTaxData decodes the model's bracket JSON, running it through the
// same recovery cascade as scenario output. A fallback recovery means
// the model produced nothing bracket-shaped, which is an error here.
func parseTaxData(raw string) (Data, error) {
	recovered, strategy := scenario.Recover(raw)
	if strategy == scenario.StrategyFallback {
		return Data{}, fmt.Errorf("model returned no tax data")
	}

	encoded, err := json.Marshal(recovered)
	if err != nil {
		return Data{}, err
	}

	var data Data
	if err := json.Unmarshal(encoded, &data); err != nil {
		return Data{}, fmt.Errorf("tax data has unexpected shape: %w", err)
	}
	if len(data.Brackets) == 0 {
		return Data{}, fmt.Errorf("tax data has no brackets")
	}
	return data, nil
}

func (e *Estimator) breakdown(ctx context.Context, country string, profit, estimated float64, data Data) (string, error) {
	prompt := fmt.Sprintf(`You are a small-business tax consultant. For %s, these are the SMB tax brackets and deductions:
Brackets: %s
Deductions: %s
Subsidies: %s

If a company has an annual net profit of $%.2f,
1) Explain how you arrived at the estimated tax of $%.2f.
2) Describe which deductions or subsidies could apply and how they reduce the tax.
3) Provide a final "TOTAL TAX OWED" figure.

Respond in plain English.`,
		country, describe(data.Brackets), describe(data.Deductions), describe(data.Subsidies), profit, estimated)

	response, err := e.client.Generate(ctx, "tax_breakdown", prompt, breakdownMaxTokens, breakdownTemperature)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response), nil
}

func describe(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// calculateTax runs progressive bracket math: each band taxes the slice
// of income between its bounds at its rate.
func calculateTax(taxableIncome float64, brackets []Bracket) float64 {
	sorted := make([]Bracket, len(brackets))
	copy(sorted, brackets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinIncome < sorted[j].MinIncome })

	var taxDue float64
	remaining := taxableIncome

	for _, bracket := range sorted {
		if taxableIncome <= bracket.MinIncome {
			break
		}
		upper := math.Inf(1)
		if bracket.MaxIncome != nil {
			upper = *bracket.MaxIncome
		}
		portion := math.Min(remaining, upper-bracket.MinIncome)
		taxDue += portion * bracket.Rate
		remaining -= portion
		if remaining <= 0 {
			break
		}
	}

	return taxDue
}
