package finance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Chart palette, cycled across categories
var palette = []string{
	"#10B981", // green
	"#3B82F6", // blue
	"#F97316", // orange
	"#8B5CF6", // purple
	"#F59E0B", // yellow
	"#6366F1", // indigo
	"#EC4899", // pink
	"#EF4444", // red
}

// Summary holds the headline figures
type Summary struct {
	Balance  decimal.Decimal `json:"balance"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// MonthTotal is the spending for one calendar month
type MonthTotal struct {
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

// CategoryTotal is the spending for one category
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Color    string          `json:"color"`
}

// Budget is a spending limit for a category
type Budget struct {
	Category string          `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
}

// BudgetComparison pairs a budget with what was actually spent
type BudgetComparison struct {
	Category string          `json:"category"`
	Budget   decimal.Decimal `json:"budget"`
	Actual   decimal.Decimal `json:"actual"`
	Over     bool            `json:"over"`
}

// Summarize totals income and expenses; balance is their difference
func Summarize(txs []Transaction) Summary {
	s := Summary{Balance: decimal.Zero, Income: decimal.Zero, Expenses: decimal.Zero}
	for _, tx := range txs {
		switch tx.Kind {
		case Income:
			s.Income = s.Income.Add(tx.Amount)
		case Expense:
			s.Expenses = s.Expenses.Add(tx.Amount)
		}
	}
	s.Balance = s.Income.Sub(s.Expenses)
	return s
}

// MonthlySpending totals expenses per month, labelled like "Jan 2024", in
// order of first appearance
func MonthlySpending(txs []Transaction) []MonthTotal {
	months := make([]MonthTotal, 0)
	index := make(map[string]int)
	for _, tx := range txs {
		if tx.Kind != Expense {
			continue
		}
		label := fmt.Sprintf("%s %d", tx.Date.Format("Jan"), tx.Date.Year())
		i, ok := index[label]
		if !ok {
			i = len(months)
			index[label] = i
			months = append(months, MonthTotal{Label: label, Total: decimal.Zero})
		}
		months[i].Total = months[i].Total.Add(tx.Amount)
	}
	return months
}

// CategorySpending totals expenses per category in order of first appearance
func CategorySpending(txs []Transaction) []CategoryTotal {
	categories := make([]CategoryTotal, 0)
	index := make(map[string]int)
	for _, tx := range txs {
		if tx.Kind != Expense {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(categories)
			index[tx.Category] = i
			categories = append(categories, CategoryTotal{
				Category: tx.Category,
				Total:    decimal.Zero,
				Color:    palette[i%len(palette)],
			})
		}
		categories[i].Total = categories[i].Total.Add(tx.Amount)
	}
	return categories
}

// CompareBudgets reports actual spending against each budget, in budget order
func CompareBudgets(txs []Transaction, budgets []Budget) []BudgetComparison {
	actual := make(map[string]decimal.Decimal)
	for _, c := range CategorySpending(txs) {
		actual[c.Category] = c.Total
	}

	out := make([]BudgetComparison, 0, len(budgets))
	for _, b := range budgets {
		spent, ok := actual[b.Category]
		if !ok {
			spent = decimal.Zero
		}
		out = append(out, BudgetComparison{
			Category: b.Category,
			Budget:   b.Limit,
			Actual:   spent,
			Over:     spent.GreaterThan(b.Limit),
		})
	}
	return out
}
