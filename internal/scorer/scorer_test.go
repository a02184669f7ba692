package scorer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Jiya-Rathi/Bot/internal/models"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		summary models.LedgerSummary
		want    int
	}{
		{
			name: "healthy high margin",
			summary: models.LedgerSummary{
				TotalRevenue:  10000,
				TotalExpenses: 6000,
				NetProfit:     4000,
				ProfitMargin:  40,
			},
			want: 90,
		},
		{
			name: "thin margin near break even",
			summary: models.LedgerSummary{
				TotalRevenue:  10000,
				TotalExpenses: 9500,
				NetProfit:     500,
				ProfitMargin:  5,
			},
			want: 60,
		},
		{
			name: "losing money with overdue invoices",
			summary: models.LedgerSummary{
				TotalRevenue:  5000,
				TotalExpenses: 8000,
				NetProfit:     -3000,
				ProfitMargin:  -60,
				OverdueCount:  3,
			},
			want: 5,
		},
		{
			name:    "empty ledger",
			summary: models.LedgerSummary{},
			want:    50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.summary)
			if got != tt.want {
				t.Errorf("Score = %d, want %d", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("Score = %d, out of range", got)
			}
		})
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

func TestScoreWithCommentary(t *testing.T) {
	client := &stubClient{output: "Solid margins; chase the overdue invoice."}
	scorer := NewScorer(client)

	summary := models.LedgerSummary{
		TotalRevenue:  10000,
		TotalExpenses: 6000,
		NetProfit:     4000,
		ProfitMargin:  40,
		OverdueCount:  1,
	}

	result := scorer.ScoreWithCommentary(context.Background(), summary)
	if result.Score != 85 {
		t.Errorf("Score = %d, want 85", result.Score)
	}
	if result.Commentary != "Solid margins; chase the overdue invoice." {
		t.Errorf("Commentary = %q", result.Commentary)
	}
	if !strings.Contains(client.lastPrompt, "85/100") {
		t.Errorf("prompt missing score, got %q", client.lastPrompt)
	}
}

func TestScoreWithCommentaryDegradesOnModelFailure(t *testing.T) {
	client := &stubClient{err: errors.New("timeout")}
	scorer := NewScorer(client)

	result := scorer.ScoreWithCommentary(context.Background(), models.LedgerSummary{NetProfit: 100, ProfitMargin: 10, TotalRevenue: 1000, TotalExpenses: 900})
	if result.Score == 0 {
		t.Error("score lost on commentary failure")
	}
	if !strings.Contains(result.Commentary, "unavailable") {
		t.Errorf("Commentary = %q, want fallback line", result.Commentary)
	}
}
