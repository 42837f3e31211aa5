package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind distinguishes money going out from money coming in
type Kind string

const (
	Expense Kind = "expense"
	Income  Kind = "income"
)

// Default expense categories offered by the dashboard
const (
	CategoryOther          = "Other"
	CategoryHousing        = "Housing"
	CategoryFood           = "Food"
	CategoryEntertainment  = "Entertainment"
	CategoryTransportation = "Transportation"
	CategoryUtilities      = "Utilities"
	CategorySavings        = "Savings"
	CategorySalary         = "Salary"
)

// Categories lists the categories in display order
var Categories = []string{
	CategoryOther,
	CategoryHousing,
	CategoryFood,
	CategoryEntertainment,
	CategoryTransportation,
	CategoryUtilities,
	CategorySavings,
	CategorySalary,
}

// Transaction represents a single income or expense entry
type Transaction struct {
	ID       string          `json:"id"`
	Kind     Kind            `json:"type"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
}

// NewTransaction holds the user-supplied fields of a transaction
type NewTransaction struct {
	Kind     Kind            `json:"type"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}
