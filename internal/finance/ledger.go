package finance

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no transaction has the requested ID
var ErrNotFound = errors.New("transaction not found")

// IDGenerator generates unique IDs for transactions
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

type systemTime struct{}

func (systemTime) Now() time.Time {
	return time.Now()
}

// Ledger keeps transactions in memory, newest first
type Ledger struct {
	mu           sync.RWMutex
	transactions []Transaction
	idGenerator  IDGenerator
	timeSource   TimeSource
}

// NewLedger creates an empty Ledger with UUID IDs and the system clock
func NewLedger() *Ledger {
	return NewLedgerWithDeps(uuidGenerator{}, systemTime{})
}

// NewLedgerWithDeps creates an empty Ledger with custom dependencies for testing
func NewLedgerWithDeps(idGen IDGenerator, timeSrc TimeSource) *Ledger {
	return &Ledger{
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// Seed loads the demo transactions the dashboard starts with
func (l *Ledger) Seed() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.timeSource.Now()
	l.transactions = append(l.transactions,
		Transaction{ID: l.idGenerator.Generate(), Kind: Expense, Title: "Netflix Subscription", Category: CategoryEntertainment, Amount: decimal.RequireFromString("14.99"), Date: now},
		Transaction{ID: l.idGenerator.Generate(), Kind: Income, Title: "Salary Deposit", Category: CategorySalary, Amount: decimal.RequireFromString("2500.00"), Date: now},
		Transaction{ID: l.idGenerator.Generate(), Kind: Expense, Title: "Grocery Shopping", Category: CategoryFood, Amount: decimal.RequireFromString("89.97"), Date: now},
	)
}

// Add validates and records a transaction, placing it first
func (l *Ledger) Add(in NewTransaction) (Transaction, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Transaction{}, fmt.Errorf("title is required")
	}
	if !in.Amount.IsPositive() {
		return Transaction{}, fmt.Errorf("amount must be greater than zero")
	}
	kind := in.Kind
	switch kind {
	case "":
		kind = Expense
	case Expense, Income:
	default:
		return Transaction{}, fmt.Errorf("unknown transaction type %q", in.Kind)
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = CategoryOther
	}

	tx := Transaction{
		ID:       l.idGenerator.Generate(),
		Kind:     kind,
		Title:    title,
		Category: category,
		Amount:   in.Amount,
		Date:     l.timeSource.Now(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.transactions = append([]Transaction{tx}, l.transactions...)
	return tx, nil
}

// Remove deletes a transaction by ID
func (l *Ledger) Remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, tx := range l.transactions {
		if tx.ID == id {
			l.transactions = append(l.transactions[:i:i], l.transactions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// List returns a copy of every transaction, newest first
func (l *Ledger) List() []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}
