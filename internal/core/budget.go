package core

import "github.com/shopspring/decimal"

const (
	BudgetUnset BudgetStatus = iota
	UnderBudget
	OverOrAtBudget
)

type BudgetStatus int

func (s BudgetStatus) String() string {
	switch s {
	case BudgetUnset:
		return "unset"
	case UnderBudget:
		return "under_budget"
	case OverOrAtBudget:
		return "over_or_at_budget"
	default:
		return "unknown"
	}
}

// BudgetReport is the outcome of comparing total spend with the budget.
type BudgetReport struct {
	Status BudgetStatus
	Spent  Money
	Budget Money
}

// EvaluateBudget classifies the ledger's spend. A zero budget is unset
// regardless of spend; spend equal to the budget counts as over.
func EvaluateBudget(l *Ledger) BudgetReport {
	r := BudgetReport{Spent: l.TotalSpent(), Budget: l.Budget}
	switch {
	case l.Budget.IsZero():
		r.Status = BudgetUnset
	case r.Spent.GreaterThanOrEqual(l.Budget):
		r.Status = OverOrAtBudget
	default:
		r.Status = UnderBudget
	}
	return r
}

// Nearing reports whether spend is still under budget but has reached
// ratio of it. Ratios outside (0, 1] never trigger.
func (r BudgetReport) Nearing(ratio decimal.Decimal) bool {
	if r.Status != UnderBudget || !ratio.IsPositive() || ratio.GreaterThan(decimal.NewFromInt(1)) {
		return false
	}
	threshold := r.Budget.Amount.Mul(ratio)
	return r.Spent.Amount.GreaterThanOrEqual(threshold)
}

// UsedPercent is spend as a percentage of the budget, zero when unset.
func (r BudgetReport) UsedPercent() decimal.Decimal {
	if r.Budget.IsZero() {
		return decimal.Zero
	}
	return r.Spent.Amount.Div(r.Budget.Amount).Mul(decimal.NewFromInt(100))
}
