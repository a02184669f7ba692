package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jiya-Rathi/Bot/internal/llm"
)

const (
	loanMaxTokens   = 256
	loanTemperature = float32(0.3)
)

// LoanAdvisor answers free-text questions about small-business loan
// options with a single model call. No document retrieval is involved;
// the model answers from its own knowledge of SBA-style programs.
type LoanAdvisor struct {
	client llm.Client
}

// NewLoanAdvisor creates a loan advisor.
func NewLoanAdvisor(client llm.Client) *LoanAdvisor {
	return &LoanAdvisor{client: client}
}

// Advise answers one loan question in a few sentences.
func (a *LoanAdvisor) Advise(ctx context.Context, question string) (string, error) {
	prompt := fmt.Sprintf(`You are a small-business loan advisor. Answer the question below for a small business owner.

Question: %q

Provide a concise, actionable answer in 2-4 sentences, naming the loan programs (e.g. SBA 7(a), SBA 504, microloans) that fit best. Recommend consulting the lender for exact terms.`, question)

	response, err := a.client.Generate(ctx, "loan_advice", prompt, loanMaxTokens, loanTemperature)
	if err != nil {
		return "", fmt.Errorf("loan advice: %w", err)
	}
	return strings.TrimSpace(response), nil
}
