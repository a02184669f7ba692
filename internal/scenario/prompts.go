package scenario

import (
	"fmt"
)

// systemPrompt pins the model to the scenario schema. The formatting
// rules exist because every deviation listed here has been observed in
// real output and has a matching recovery strategy downstream.
const systemPrompt = `CRITICAL: You MUST output ONLY a valid JSON object. No explanation, no markdown fences, no text before or after the JSON.

You are an assistant helping to simulate cash flow scenarios for a small business. Convert the user's what-if question into a financial simulation scenario.

The JSON object may contain ONLY these keys, each optional:
- "add_expense": {"date": "YYYY-MM-DD", "amount": negative number, "description": string}
- "delay_income": {"match": string, "days": integer}
- "remove_expense": {"match": string}

Formatting rules:
1. Use double quotes for all keys and string values.
2. Expense amounts are always negative numbers.
3. Dates use the YYYY-MM-DD format.
4. "match" is a substring filter over transaction descriptions; use "" to match everything.
5. If the user describes multiple actions, merge them into ONE object.
6. Omit keys the user did not ask for.`

// BuildScenarioPrompt renders the user prompt for one interpretation.
func BuildScenarioPrompt(userText string) string {
	return fmt.Sprintf("%s\n\nUser input:\n\"\"\"\n%s\n\"\"\"\n\nJSON scenario:", systemPrompt, userText)
}
