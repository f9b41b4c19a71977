// Package shell runs the numbered menu that drives the ledger from a
// terminal.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/log"
	"bilancio/internal/report"
)

// State is where the menu loop currently is.
type State int

const (
	MainMenu State = iota
	AwaitingInput
	Terminated
)

func (s State) String() string {
	switch s {
	case MainMenu:
		return "main_menu"
	case AwaitingInput:
		return "awaiting_input"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

const menu = `
Expense Manager
1. Add Expense
2. View Spending History
3. Categorize Expenses
4. Generate Spending Report
5. Set Budget
6. Check Budget
7. Exit
`

// Ledger is what the shell needs from the ledger service.
type Ledger interface {
	AddExpense(ctx context.Context, e core.Expense) error
	SetBudget(ctx context.Context, m core.Money) error
	Expenses() []core.Expense
	CategoryTotals() core.CategoryTotals
	CheckBudget() core.BudgetReport
	BudgetAlert() (core.BudgetReport, bool)
}

// Options carries the collaborators and display settings of a Shell.
// Zero values fall back to local time, "02-01-2006", "$" and a discarding
// logger.
type Options struct {
	Renderer   report.ChartRenderer
	Now        func() time.Time
	DateLayout string
	Currency   string
	Logger     *log.Logger
}

type Shell struct {
	in         *bufio.Reader
	out        io.Writer
	ledger     Ledger
	renderer   report.ChartRenderer
	now        func() time.Time
	dateLayout string
	currency   string
	logger     *log.Logger
	state      State
}

func New(in io.Reader, out io.Writer, ledger Ledger, opts Options) *Shell {
	s := &Shell{
		in:         bufio.NewReader(in),
		out:        out,
		ledger:     ledger,
		renderer:   opts.Renderer,
		now:        opts.Now,
		dateLayout: opts.DateLayout,
		currency:   opts.Currency,
		logger:     opts.Logger,
		state:      MainMenu,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.dateLayout == "" {
		s.dateLayout = "02-01-2006"
	}
	if s.currency == "" {
		s.currency = "$"
	}
	if s.logger == nil {
		s.logger = log.Discard()
	}
	s.logger = s.logger.WithComponent(log.ComponentShell)
	return s
}

// State reports the current position in the menu loop.
func (s *Shell) State() State {
	return s.state
}

// Run shows the menu until the user exits or input ends. Both end the loop
// with "Goodbye!" and a nil error. A cancelled context stops the loop
// before the next menu is shown.
func (s *Shell) Run(ctx context.Context) error {
	for s.state != Terminated {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(s.out, menu)
		choice, err := s.ask("Enter your choice: ")
		if err != nil {
			if errors.Is(err, errInputClosed) {
				fmt.Fprintln(s.out)
				s.exit(ctx)
				return nil
			}
			return err
		}

		if err := s.dispatch(ctx, strings.TrimSpace(choice)); err != nil {
			if errors.Is(err, errInputClosed) {
				fmt.Fprintln(s.out)
				s.exit(ctx)
				return nil
			}
			return err
		}
	}
	return nil
}

func (s *Shell) dispatch(ctx context.Context, choice string) error {
	s.logger.DebugContext(ctx, "Menu choice", log.FieldChoice, choice)

	switch choice {
	case "1":
		return s.awaiting(func() error { return s.addExpense(ctx) })
	case "2":
		s.viewHistory(ctx)
	case "3":
		s.categorize(ctx)
	case "4":
		s.generateReport(ctx)
	case "5":
		return s.awaiting(func() error { return s.setBudget(ctx) })
	case "6":
		s.checkBudget(ctx)
	case "7":
		s.exit(ctx)
	default:
		fmt.Fprintln(s.out, "Invalid choice, please try again.")
	}
	return nil
}

// awaiting runs a prompted sub-interaction and returns to the main menu.
func (s *Shell) awaiting(fn func() error) error {
	s.state = AwaitingInput
	err := fn()
	s.state = MainMenu
	return err
}

func (s *Shell) exit(ctx context.Context) {
	fmt.Fprintln(s.out, "Goodbye!")
	s.state = Terminated
	s.logger.InfoContext(ctx, "Session ended", log.FieldOperation, log.OpShutdown)
}

func (s *Shell) addExpense(ctx context.Context) error {
	amount, err := s.askAmount("Enter the amount spent: ")
	if err != nil {
		return err
	}
	category, err := s.ask("Enter the category (e.g., food, transport, etc.): ")
	if err != nil {
		return err
	}
	date, err := s.askDate()
	if err != nil {
		return err
	}

	e := core.Expense{Amount: amount, Category: category, Date: date}
	if err := s.ledger.AddExpense(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "Add expense failed",
			log.NewFields().
				WithOperation(log.OpAddExpense).
				WithExpense(amount.String(), category, date).
				WithError(err).
				ToSlice()...)
		fmt.Fprintf(s.out, "Could not save the expense: %v\n", err)
		return nil
	}
	fmt.Fprintln(s.out, "Expense added successfully!")

	if r, nearing := s.ledger.BudgetAlert(); nearing {
		fmt.Fprintf(s.out, "⚠️ You are nearing your budget! You spent %s of %s (%s used).\n",
			s.money(r.Spent), s.money(r.Budget), r.UsedPercent().StringFixed(1)+"%")
	}
	return nil
}

func (s *Shell) viewHistory(ctx context.Context) {
	expenses := s.ledger.Expenses()
	s.logger.DebugContext(ctx, "Viewing history", log.FieldOperation, log.OpHistory, log.FieldExpenses, len(expenses))
	if len(expenses) == 0 {
		fmt.Fprintln(s.out, "No expenses recorded yet.")
		return
	}

	fmt.Fprintln(s.out, "\nYour Spending History:")
	for _, e := range expenses {
		fmt.Fprintf(s.out, "Date: %s, Category: %s, Amount: %s\n", e.Date, e.Category, s.money(e.Amount))
	}
}

// categorize prints the per-category list and returns the totals it
// printed.
func (s *Shell) categorize(ctx context.Context) core.CategoryTotals {
	totals := s.ledger.CategoryTotals()
	s.logger.DebugContext(ctx, "Categorizing", log.FieldOperation, log.OpCategorize, "categories", len(totals))

	fmt.Fprintln(s.out, "\nExpenses by Category:")
	if len(totals) == 0 {
		fmt.Fprintln(s.out, "No expenses to show.")
		return totals
	}
	if err := report.ListReport(s.out, totals, s.currency); err != nil {
		s.logger.ErrorContext(ctx, "Writing category list failed", log.FieldError, err)
	}
	return totals
}

func (s *Shell) generateReport(ctx context.Context) {
	totals := s.categorize(ctx)
	if len(totals) == 0 || s.renderer == nil {
		return
	}
	if err := s.renderer.Render(ctx, totals); err != nil {
		s.logger.ErrorContext(ctx, "Chart rendering failed",
			log.FieldOperation, log.OpRender,
			log.FieldError, err,
			log.FieldErrorType, log.ErrorTypeRender)
		fmt.Fprintf(s.out, "Could not render the chart: %v\n", err)
	}
}

func (s *Shell) setBudget(ctx context.Context) error {
	budget, err := s.askAmount("Enter your budget for the month: ")
	if err != nil {
		return err
	}
	if err := s.ledger.SetBudget(ctx, budget); err != nil {
		s.logger.ErrorContext(ctx, "Set budget failed",
			log.FieldOperation, log.OpSetBudget,
			log.FieldBudget, budget.String(),
			log.FieldError, err)
		fmt.Fprintf(s.out, "Could not save the budget: %v\n", err)
		return nil
	}
	fmt.Fprintf(s.out, "Your budget is set to %s.\n", s.money(budget))
	return nil
}

func (s *Shell) checkBudget(ctx context.Context) {
	r := s.ledger.CheckBudget()
	s.logger.DebugContext(ctx, "Checking budget",
		log.NewFields().
			WithOperation(log.OpCheckBudget).
			WithBudget(r.Spent.String(), r.Budget.String(), r.Status.String()).
			ToSlice()...)

	switch r.Status {
	case core.BudgetUnset:
		fmt.Fprintln(s.out, "You haven't set a budget yet!")
	case core.OverOrAtBudget:
		fmt.Fprintf(s.out, "⚠️ You have exceeded your budget! You spent %s, and your budget is %s.\n",
			s.money(r.Spent), s.money(r.Budget))
	default:
		fmt.Fprintf(s.out, "Your spending is under control. You spent %s out of %s.\n",
			s.money(r.Spent), s.money(r.Budget))
	}
}

func (s *Shell) money(m core.Money) string {
	return report.FormatMoney(s.currency, m)
}
