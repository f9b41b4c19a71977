package core

import "fmt"

type (
	// Expense is one recorded transaction. Category is free text and is
	// kept exactly as typed; Date is an opaque calendar string.
	Expense struct {
		Amount   Money  `json:"amount"`
		Category string `json:"category"`
		Date     string `json:"date"`
	}

	// Ledger is the aggregate root: every expense plus the budget.
	// A zero budget means no budget has been set.
	Ledger struct {
		Expenses []Expense `json:"expenses"`
		Budget   Money     `json:"budget"`
	}
)

// NewLedger returns an empty ledger with no budget.
func NewLedger() *Ledger {
	return &Ledger{Expenses: []Expense{}, Budget: ZeroMoney()}
}

func (e Expense) Validate() error {
	if e.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// Validate reports the first entry that could not have been produced by
// the entry flows.
func (l *Ledger) Validate() error {
	if l.Budget.IsNegative() {
		return ErrNegativeBudget
	}
	for i, e := range l.Expenses {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("expense %d: %w", i, err)
		}
	}
	return nil
}

// Normalize replaces a missing expense list with an empty one so that
// expenses and budget are always present together.
func (l *Ledger) Normalize() {
	if l.Expenses == nil {
		l.Expenses = []Expense{}
	}
}

// Add appends an expense in entry order.
func (l *Ledger) Add(e Expense) {
	l.Expenses = append(l.Expenses, e)
}

// SetBudget overwrites the budget.
func (l *Ledger) SetBudget(m Money) {
	l.Budget = m
}

// TotalSpent sums every amount in insertion order.
func (l *Ledger) TotalSpent() Money {
	total := ZeroMoney()
	for _, e := range l.Expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// Clone returns a deep copy.
func (l *Ledger) Clone() *Ledger {
	out := &Ledger{
		Expenses: make([]Expense, len(l.Expenses)),
		Budget:   l.Budget,
	}
	copy(out.Expenses, l.Expenses)
	return out
}

// Equal compares amounts by value, so 12.5 and 12.50 are the same.
func (l *Ledger) Equal(other *Ledger) bool {
	if l == nil || other == nil {
		return l == other
	}
	if !l.Budget.Equal(other.Budget) || len(l.Expenses) != len(other.Expenses) {
		return false
	}
	for i, e := range l.Expenses {
		o := other.Expenses[i]
		if e.Category != o.Category || e.Date != o.Date || !e.Amount.Equal(o.Amount) {
			return false
		}
	}
	return true
}
