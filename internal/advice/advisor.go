package advice

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/zombor/finance-dashboard/internal/finance"
)

// recentLimit is how many transactions are sent to the model as context
const recentLimit = 5

// Role of a chat message
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of an assistant conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Insight is a single headline observation about recent spending
type Insight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"` // positive, warning or neutral
}

// PlanItem is one category line of a generated budget plan
type PlanItem struct {
	Category      string          `json:"category"`
	PlannedAmount decimal.Decimal `json:"plannedAmount"`
	Notes         string          `json:"notes"`
}

// Plan is a generated monthly budget plan
type Plan struct {
	BudgetPlans []PlanItem `json:"budgetPlans"`
}

// Snapshot is the financial context handed to the model
type Snapshot struct {
	MonthlyIncome decimal.Decimal         `json:"monthlyIncome"`
	TotalSpent    decimal.Decimal         `json:"totalSpent"`
	SavingsRate   decimal.Decimal         `json:"savingsRate"`
	Categories    []finance.CategoryTotal `json:"categories"`
	Recent        []finance.Transaction   `json:"transactions"`
}

// NewSnapshot summarizes a ledger listing (newest first) for prompting
func NewSnapshot(txs []finance.Transaction) Snapshot {
	summary := finance.Summarize(txs)
	recent := txs
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	return Snapshot{
		MonthlyIncome: summary.Income,
		TotalSpent:    summary.Expenses,
		SavingsRate:   finance.SavingsRate(summary.Income, summary.Expenses),
		Categories:    finance.CategorySpending(txs),
		Recent:        recent,
	}
}

// Advisor defines the interface for LLM-backed financial advice
type Advisor interface {
	// Insight produces one actionable observation about recent transactions
	Insight(ctx context.Context, snap Snapshot) (*Insight, error)
	// Plan produces a monthly budget plan
	Plan(ctx context.Context, snap Snapshot) (*Plan, error)
	// Chat answers a question given the conversation so far
	Chat(ctx context.Context, snap Snapshot, history []Message, question string) (string, error)
	// Close releases the advisor's resources
	Close() error
}
