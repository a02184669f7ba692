package forecaster

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Jiya-Rathi/Bot/internal/models"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestForecastProjectsBalance(t *testing.T) {
	transactions := []models.Transaction{
		{Date: day("2025-06-01"), Amount: 100, Description: "Sale"},
		{Date: day("2025-06-01"), Amount: -40, Description: "Supplies"},
		{Date: day("2025-06-03"), Amount: 60, Description: "Sale"},
	}

	points, err := Forecast(transactions, 2)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	// Three observed days (including the quiet 2nd) plus two projected.
	if len(points) != 5 {
		t.Fatalf("len = %d, want 5", len(points))
	}

	if points[0].Balance != 60 {
		t.Errorf("day 1 balance = %v, want 60", points[0].Balance)
	}
	if points[1].Balance != 60 {
		t.Errorf("quiet day balance = %v, want 60", points[1].Balance)
	}
	if points[2].Balance != 120 {
		t.Errorf("day 3 balance = %v, want 120", points[2].Balance)
	}

	// Trend is 120/3 = 40 per day.
	if points[3].Balance != 160 {
		t.Errorf("projected day 1 = %v, want 160", points[3].Balance)
	}
	if points[4].Balance != 200 {
		t.Errorf("projected day 2 = %v, want 200", points[4].Balance)
	}
	if !points[4].Date.Equal(day("2025-06-05")) {
		t.Errorf("projected date = %v, want 2025-06-05", points[4].Date)
	}
}

func TestForecastDeterministic(t *testing.T) {
	transactions := []models.Transaction{
		{Date: day("2025-06-01"), Amount: 500, Description: "Invoice"},
		{Date: day("2025-06-10"), Amount: -900, Description: "Rent"},
	}

	first, err := Forecast(transactions, 30)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	second, err := Forecast(transactions, 30)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("divergence at [%d]: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestForecastEmptyLedger(t *testing.T) {
	if _, err := Forecast(nil, 30); err == nil {
		t.Fatal("expected error for empty ledger")
	}
}

func TestSummarize(t *testing.T) {
	points := []Point{
		{Date: day("2025-06-01"), Balance: 100},
		{Date: day("2025-06-02"), Balance: -20},
		{Date: day("2025-06-03"), Balance: 40},
	}

	stats := Summarize(points, 3)
	if stats.Min != -20 || stats.Max != 100 {
		t.Errorf("min/max = %v/%v, want -20/100", stats.Min, stats.Max)
	}
	if stats.Mean != 40 {
		t.Errorf("mean = %v, want 40", stats.Mean)
	}
	if stats.NegativeDays != 1 {
		t.Errorf("negative days = %d, want 1", stats.NegativeDays)
	}
}

func TestSummaryWarnsOnProjectedNegative(t *testing.T) {
	// A large outflow pulls the trend negative, so the projection dips
	// below zero.
	transactions := []models.Transaction{
		{Date: day("2025-06-01"), Amount: 100, Description: "Sale"},
		{Date: day("2025-06-02"), Amount: -900, Description: "Equipment"},
	}

	points, err := Forecast(transactions, 5)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	msg := Summary(points, 5)
	if !strings.Contains(msg, "Cash flow alert") {
		t.Errorf("message = %q, want an alert", msg)
	}
}

func TestSummaryHealthy(t *testing.T) {
	transactions := []models.Transaction{
		{Date: day("2025-06-01"), Amount: 1000, Description: "Sale"},
		{Date: day("2025-06-02"), Amount: -100, Description: "Supplies"},
	}

	points, err := Forecast(transactions, 5)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	msg := Summary(points, 5)
	if !strings.Contains(msg, "healthy") {
		t.Errorf("message = %q, want healthy", msg)
	}
}

type stubClient struct {
	output     string
	err        error
	lastPrompt string
}

func (s *stubClient) Generate(_ context.Context, _, prompt string, _ int, _ float32) (string, error) {
	s.lastPrompt = prompt
	return s.output, s.err
}

func TestExplainerPromptCarriesStats(t *testing.T) {
	client := &stubClient{output: "  Balances trend upward; keep invoicing on schedule.  "}
	explainer := NewExplainer(client)

	points := []Point{
		{Date: day("2025-06-01"), Balance: 100},
		{Date: day("2025-06-02"), Balance: -20},
		{Date: day("2025-06-03"), Balance: 40},
	}

	got, err := explainer.Explain(context.Background(), points, 3)
	if err != nil {
		t.Fatalf("Explain failed: %v", err)
	}
	if got != "Balances trend upward; keep invoicing on schedule." {
		t.Errorf("explanation = %q, want trimmed model output", got)
	}

	for _, want := range []string{"Lowest balance: $-20.00", "Highest balance: $100.00", "Days with negative balance: 1", "Jun 02"} {
		if !strings.Contains(client.lastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
