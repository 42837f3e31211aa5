package finance

import "github.com/shopspring/decimal"

// Recommendation is a suggested monthly budget for a category
type Recommendation struct {
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"recommended_amount"`
	Explanation string          `json:"explanation"`
}

// Advice is the rule-based budget guidance
type Advice struct {
	Recommendations []Recommendation `json:"recommendations"`
	General         []string         `json:"general"`
	SavingsRate     decimal.Decimal  `json:"savings_rate"`
}

type incomeRule struct {
	category    string
	share       decimal.Decimal
	explanation string
}

var incomeRules = []incomeRule{
	{CategoryHousing, decimal.RequireFromString("0.30"), "Keep housing costs within 30% of income"},
	{CategoryFood, decimal.RequireFromString("0.15"), "Allocate 15% for food and groceries"},
	{CategoryTransportation, decimal.RequireFromString("0.10"), "Limit transportation to 10% of income"},
	{CategoryEntertainment, decimal.RequireFromString("0.05"), "Keep entertainment within 5% of income"},
}

var healthySavingsRate = decimal.NewFromInt(20)

var (
	lowSavingsAdvice = []string{
		"Aim to save at least 20% of your monthly income",
		"Look for areas to reduce non-essential spending",
		"Consider creating an emergency fund",
		"Track your daily expenses to identify potential savings",
	}
	healthySavingsAdvice = []string{
		"Great job maintaining a healthy savings rate!",
		"Consider investing your surplus savings",
		"Review your insurance coverage",
		"Plan for long-term financial goals",
	}
)

// Recommend applies share-of-income rules to the categories that have
// spending, and picks general advice by savings rate. It returns the zero
// Advice when there is nothing to base it on.
func Recommend(txs []Transaction, income decimal.Decimal) Advice {
	if len(txs) == 0 || !income.IsPositive() {
		return Advice{}
	}

	spent := make(map[string]bool)
	total := decimal.Zero
	for _, c := range CategorySpending(txs) {
		spent[c.Category] = true
		total = total.Add(c.Total)
	}

	advice := Advice{Recommendations: make([]Recommendation, 0)}
	for _, rule := range incomeRules {
		if !spent[rule.category] {
			continue
		}
		advice.Recommendations = append(advice.Recommendations, Recommendation{
			Category:    rule.category,
			Amount:      income.Mul(rule.share).Round(2),
			Explanation: rule.explanation,
		})
	}

	advice.SavingsRate = SavingsRate(income, total)
	if advice.SavingsRate.LessThan(healthySavingsRate) {
		advice.General = lowSavingsAdvice
	} else {
		advice.General = healthySavingsAdvice
	}
	return advice
}

// SavingsRate is the percentage of income not spent, rounded to one place
func SavingsRate(income, spent decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	return income.Sub(spent).Div(income).Mul(decimal.NewFromInt(100)).Round(1)
}
