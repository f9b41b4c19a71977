package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
	"bilancio/internal/log"
	"bilancio/internal/storage"
)

// DefaultAlertRatio is the share of the budget at which spend is reported
// as nearing the limit.
var DefaultAlertRatio = decimal.RequireFromString("0.9")

// Options tunes how a LedgerService starts.
type Options struct {
	// StartFresh ignores whatever is persisted and begins with an empty
	// ledger. The first mutation overwrites the stored data.
	StartFresh bool

	// AlertRatio defaults to DefaultAlertRatio when zero.
	AlertRatio decimal.Decimal

	Logger *log.Logger
}

// LedgerService owns the session's ledger and writes it through to the
// store after every mutation.
type LedgerService struct {
	store      storage.Store
	ledger     *core.Ledger
	alertRatio decimal.Decimal
	logger     *log.Logger
}

// NewLedgerService loads the persisted ledger (unless StartFresh) and
// returns a service ready for the session.
func NewLedgerService(ctx context.Context, store storage.Store, opts Options) (*LedgerService, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentLedger)

	ratio := opts.AlertRatio
	if ratio.IsZero() {
		ratio = DefaultAlertRatio
	}

	s := &LedgerService{
		store:      store,
		alertRatio: ratio,
		logger:     logger,
	}

	if opts.StartFresh {
		s.ledger = core.NewLedger()
		logger.InfoContext(ctx, "Starting with an empty ledger, persisted data ignored", log.FieldOperation, log.OpStartup)
		return s, nil
	}

	l, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	l.Normalize()
	s.ledger = l

	logger.InfoContext(ctx, "Ledger loaded",
		log.FieldOperation, log.OpLoad,
		log.FieldExpenses, len(l.Expenses),
		log.FieldBudget, l.Budget.String())

	return s, nil
}

// AddExpense appends e and saves. When the save fails the expense is
// dropped again so memory matches what is on disk.
func (s *LedgerService) AddExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}

	n := len(s.ledger.Expenses)
	s.ledger.Add(e)
	if err := s.store.Save(ctx, s.ledger); err != nil {
		s.ledger.Expenses = s.ledger.Expenses[:n]
		s.logger.ErrorContext(ctx, "Failed to save expense",
			log.NewFields().
				WithOperation(log.OpAddExpense).
				WithExpense(e.Amount.String(), e.Category, e.Date).
				WithError(err).
				WithErrorType(log.ErrorTypeStorage).
				ToSlice()...)
		return fmt.Errorf("save ledger: %w", err)
	}

	s.logger.DebugContext(ctx, "Expense added",
		log.NewFields().
			WithOperation(log.OpAddExpense).
			WithExpense(e.Amount.String(), e.Category, e.Date).
			ToSlice()...)
	return nil
}

// SetBudget overwrites the budget and saves, restoring the previous value
// if the save fails.
func (s *LedgerService) SetBudget(ctx context.Context, m core.Money) error {
	if m.IsNegative() {
		return core.ErrNegativeBudget
	}

	prev := s.ledger.Budget
	s.ledger.SetBudget(m)
	if err := s.store.Save(ctx, s.ledger); err != nil {
		s.ledger.SetBudget(prev)
		s.logger.ErrorContext(ctx, "Failed to save budget",
			log.FieldOperation, log.OpSetBudget,
			log.FieldBudget, m.String(),
			log.FieldError, err)
		return fmt.Errorf("save ledger: %w", err)
	}

	s.logger.DebugContext(ctx, "Budget set", log.FieldOperation, log.OpSetBudget, log.FieldBudget, m.String())
	return nil
}

// Expenses returns a copy of every expense in entry order.
func (s *LedgerService) Expenses() []core.Expense {
	out := make([]core.Expense, len(s.ledger.Expenses))
	copy(out, s.ledger.Expenses)
	return out
}

// CategoryTotals recomputes the per-category sums.
func (s *LedgerService) CategoryTotals() core.CategoryTotals {
	return core.CategoryTotalsOf(s.ledger.Expenses)
}

func (s *LedgerService) TotalSpent() core.Money {
	return s.ledger.TotalSpent()
}

// CheckBudget compares spend with the budget.
func (s *LedgerService) CheckBudget() core.BudgetReport {
	return core.EvaluateBudget(s.ledger)
}

// BudgetAlert reports whether spend is under budget but within the alert
// ratio of it.
func (s *LedgerService) BudgetAlert() (core.BudgetReport, bool) {
	r := core.EvaluateBudget(s.ledger)
	return r, r.Nearing(s.alertRatio)
}

// Snapshot returns a deep copy of the current ledger.
func (s *LedgerService) Snapshot() *core.Ledger {
	return s.ledger.Clone()
}

// Close closes the underlying store
func (s *LedgerService) Close() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close ledger store: %w", err)
	}
	return nil
}
