package advice

import (
	"encoding/json"
	"fmt"
	"strings"
)

const assistantSystemPrompt = "You are a helpful financial assistant. Limit answers to 100 words."

func insightPrompt(snap Snapshot) string {
	var b strings.Builder
	b.WriteString("As an AI financial assistant, analyze these recent transactions and provide a key financial insight that will help improve financial health:\n")
	fmt.Fprintf(&b, "Monthly Income: ₹%s\n", snap.MonthlyIncome.StringFixed(2))
	b.WriteString("Recent Transactions:\n")
	for _, tx := range snap.Recent {
		fmt.Fprintf(&b, "%s: %s - ₹%s (%s)\n", tx.Kind, tx.Title, tx.Amount.StringFixed(2), tx.Category)
	}
	b.WriteString(`
Provide the insight in this JSON format:
{
  "title": "short_impactful_title",
  "description": "actionable_advice_with_specific_numbers",
  "type": "positive/warning/neutral"
}

Make the insight specific, actionable, and based on actual transaction patterns.`)
	return b.String()
}

func planPrompt(snap Snapshot) string {
	var b strings.Builder
	b.WriteString("As a financial planner, create a detailed monthly budget plan based on:\n")
	fmt.Fprintf(&b, "Monthly Income: ₹%s\n", snap.MonthlyIncome.StringFixed(2))
	fmt.Fprintf(&b, "Current Total Spending: ₹%s\n", snap.TotalSpent.StringFixed(2))
	fmt.Fprintf(&b, "Current Savings Rate: %s%%\n\n", snap.SavingsRate.StringFixed(1))
	b.WriteString("Current Category Spending:\n")
	for _, c := range snap.Categories {
		fmt.Fprintf(&b, "%s: ₹%s\n", c.Category, c.Total.StringFixed(2))
	}
	b.WriteString(`
Create a budget plan in this JSON format:
{
  "budgetPlans": [
    {
      "category": "category_name",
      "plannedAmount": number,
      "notes": "detailed_explanation_and_tips"
    }
  ]
}

Consider a healthy savings rate (20-30% of income), essential expenses first, discretionary balance, long-term goals and an emergency fund.`)
	return b.String()
}

// chatPrompt wraps the question with the snapshot as JSON context
func chatPrompt(snap Snapshot, question string) (string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshaling context: %w", err)
	}
	return fmt.Sprintf("Use this context to help answer the question: %s\n\nUser question: %s", data, question), nil
}

// ErrorReply is what the assistant says when the model call fails
func ErrorReply(err error) string {
	return fmt.Sprintf("Sorry, I encountered an error: %v. Please try again later.", err)
}
