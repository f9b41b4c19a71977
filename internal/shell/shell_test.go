package shell

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilancio/internal/core"
	"bilancio/internal/services"
	"bilancio/internal/storage/memory"
)

// recordingRenderer remembers every set of totals it was asked to draw.
type recordingRenderer struct {
	calls []core.CategoryTotals
	err   error
}

func (r *recordingRenderer) Render(_ context.Context, totals core.CategoryTotals) error {
	r.calls = append(r.calls, totals)
	return r.err
}

// failingLedger rejects every mutation and records the shell state seen
// while the mutation runs.
type failingLedger struct {
	*services.LedgerService
	shell *Shell
	seen  []State
}

var errSave = errors.New("disk full")

func (f *failingLedger) AddExpense(context.Context, core.Expense) error {
	f.seen = append(f.seen, f.shell.State())
	return errSave
}

func (f *failingLedger) SetBudget(context.Context, core.Money) error {
	f.seen = append(f.seen, f.shell.State())
	return errSave
}

var fixedNow = func() time.Time {
	return time.Date(2024, time.March, 5, 10, 0, 0, 0, time.Local)
}

type harness struct {
	shell    *Shell
	out      *bytes.Buffer
	store    *memory.Store
	service  *services.LedgerService
	renderer *recordingRenderer
}

func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	store := memory.New()
	svc, err := services.NewLedgerService(context.Background(), store, services.Options{})
	require.NoError(t, err)

	h := &harness{out: &bytes.Buffer{}, store: store, service: svc, renderer: &recordingRenderer{}}
	h.shell = New(strings.NewReader(input), h.out, svc, Options{Renderer: h.renderer, Now: fixedNow})
	return h
}

func (h *harness) run(t *testing.T) string {
	t.Helper()
	require.NoError(t, h.shell.Run(context.Background()))
	assert.Equal(t, Terminated, h.shell.State())
	return h.out.String()
}

func TestExit(t *testing.T) {
	h := newHarness(t, "7\n1\n")
	out := h.run(t)

	assert.Contains(t, out, "Expense Manager\n1. Add Expense\n2. View Spending History\n3. Categorize Expenses\n"+
		"4. Generate Spending Report\n5. Set Budget\n6. Check Budget\n7. Exit\nEnter your choice: ")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))
	assert.Equal(t, 1, strings.Count(out, "Expense Manager"))
}

func TestInputClosedExits(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"at menu", ""},
		{"after a choice", "2\n"},
		{"while adding", "1\n12\n"},
		{"while setting budget", "5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.input)
			out := h.run(t)
			assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))
			assert.Empty(t, h.service.Expenses())
			assert.Zero(t, h.store.Saves())
		})
	}
}

func TestLastLineWithoutNewline(t *testing.T) {
	h := newHarness(t, "7")
	assert.Contains(t, h.run(t), "Goodbye!")
}

func TestInvalidChoice(t *testing.T) {
	h := newHarness(t, "9\n\nabc\n7\n")
	out := h.run(t)
	assert.Equal(t, 3, strings.Count(out, "Invalid choice, please try again."))
	assert.Equal(t, 4, strings.Count(out, "Expense Manager"))
}

func TestAddExpensesHistoryAndCategories(t *testing.T) {
	h := newHarness(t, "1\n12.50\nfood\n2024-01-01\n1\n7,50\nfood\n2024-01-02\n1\n3\ntransport\n2024-01-03\n2\n3\n7\n")
	out := h.run(t)

	assert.Equal(t, 3, strings.Count(out, "Expense added successfully!"))
	assert.Contains(t, out, "Your Spending History:\n"+
		"Date: 2024-01-01, Category: food, Amount: $12.50\n"+
		"Date: 2024-01-02, Category: food, Amount: $7.50\n"+
		"Date: 2024-01-03, Category: transport, Amount: $3.00\n")
	assert.Contains(t, out, "Expenses by Category:\nfood: $20.00\ntransport: $3.00\n")
	assert.Equal(t, 3, h.store.Saves())
	assert.Equal(t, "23.00", h.service.CheckBudget().Spent.String())
}

func TestAddExpenseKeepsCategoryText(t *testing.T) {
	h := newHarness(t, "1\n1\n Food \n\n7\n")
	h.run(t)
	require.Len(t, h.service.Expenses(), 1)
	assert.Equal(t, " Food ", h.service.Expenses()[0].Category)
}

func TestAddExpenseRepromptsOnBadAmount(t *testing.T) {
	h := newHarness(t, "1\nabc\n-3\n\n5\ntaxi\n\n7\n")
	out := h.run(t)

	assert.Equal(t, 3, strings.Count(out, "Invalid amount"))
	require.Len(t, h.service.Expenses(), 1)
	e := h.service.Expenses()[0]
	assert.Equal(t, "5.00", e.Amount.String())
	assert.Equal(t, "taxi", e.Category)
	assert.Equal(t, "05-03-2024", e.Date, "empty date defaults to today")
	assert.Contains(t, out, "Enter the date (DD-MM-YYYY, or press Enter for today): ")
}

func TestDateLayoutOption(t *testing.T) {
	svc, err := services.NewLedgerService(context.Background(), memory.New(), services.Options{})
	require.NoError(t, err)
	var out bytes.Buffer
	s := New(strings.NewReader("1\n1\nx\n\n7\n"), &out, svc, Options{Now: fixedNow, DateLayout: "2006-01-02", Currency: "€"})

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, "2024-03-05", svc.Expenses()[0].Date)
	assert.Contains(t, out.String(), "Enter the date (YYYY-MM-DD, or press Enter for today): ")
}

func TestEmptyLedgerViews(t *testing.T) {
	h := newHarness(t, "2\n3\n4\n6\n7\n")
	out := h.run(t)

	assert.Contains(t, out, "No expenses recorded yet.")
	assert.Equal(t, 2, strings.Count(out, "No expenses to show."))
	assert.Contains(t, out, "You haven't set a budget yet!")
	assert.Empty(t, h.renderer.calls)
}

func TestGenerateReportRenders(t *testing.T) {
	h := newHarness(t, "1\n30\nfood\nd\n1\n10\ntransport\nd\n4\n7\n")
	out := h.run(t)

	assert.Contains(t, out, "food: $30.00\ntransport: $10.00\n")
	require.Len(t, h.renderer.calls, 1)
	assert.Equal(t, []string{"food", "transport"}, h.renderer.calls[0].Names())
}

func TestGenerateReportRenderError(t *testing.T) {
	h := newHarness(t, "1\n1\na\nd\n4\n7\n")
	h.renderer.err = errors.New("no display")
	out := h.run(t)
	assert.Contains(t, out, "Could not render the chart: no display")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))
}

func TestBudgetFlow(t *testing.T) {
	h := newHarness(t, "5\n50\n1\n60\nrent\nd\n6\n7\n")
	out := h.run(t)

	assert.Contains(t, out, "Your budget is set to $50.00.")
	assert.Contains(t, out, "⚠️ You have exceeded your budget! You spent $60.00, and your budget is $50.00.")
}

func TestBudgetAtLimitCountsAsExceeded(t *testing.T) {
	h := newHarness(t, "5\n50\n1\n50\nrent\nd\n6\n7\n")
	assert.Contains(t, h.run(t), "You have exceeded your budget! You spent $50.00, and your budget is $50.00.")
}

func TestUnderBudgetWithAlert(t *testing.T) {
	h := newHarness(t, "5\n100\n1\n50\nfood\nd\n1\n45\nfood\nd\n6\n7\n")
	out := h.run(t)

	assert.Equal(t, 1, strings.Count(out, "You are nearing your budget!"))
	assert.Contains(t, out, "You spent $95.00 of $100.00 (95.0% used).")
	assert.Contains(t, out, "Your spending is under control. You spent $95.00 out of $100.00.")
}

func TestZeroBudgetIsUnset(t *testing.T) {
	h := newHarness(t, "5\n0\n1\n10\nx\nd\n6\n7\n")
	out := h.run(t)
	assert.Contains(t, out, "Your budget is set to $0.00.")
	assert.Contains(t, out, "You haven't set a budget yet!")
}

func TestSaveFailureKeepsLooping(t *testing.T) {
	svc, err := services.NewLedgerService(context.Background(), memory.New(), services.Options{})
	require.NoError(t, err)
	ledger := &failingLedger{LedgerService: svc}
	var out bytes.Buffer
	s := New(strings.NewReader("1\n5\nfood\nd\n5\n10\n2\n7\n"), &out, ledger, Options{Now: fixedNow})
	ledger.shell = s

	require.NoError(t, s.Run(context.Background()))
	assert.Contains(t, out.String(), "Could not save the expense: disk full")
	assert.Contains(t, out.String(), "Could not save the budget: disk full")
	assert.Contains(t, out.String(), "No expenses recorded yet.")
	assert.NotContains(t, out.String(), "Expense added successfully!")
	assert.Equal(t, []State{AwaitingInput, AwaitingInput}, ledger.seen)
}

func TestCancelledContext(t *testing.T) {
	h := newHarness(t, "7\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, h.shell.Run(ctx), context.Canceled)
	assert.Empty(t, h.out.String())
}

func TestLayoutHint(t *testing.T) {
	tests := map[string]string{
		"02-01-2006": "DD-MM-YYYY",
		"2006-01-02": "YYYY-MM-DD",
		"02/01/06":   "DD/MM/YY",
	}
	for layout, want := range tests {
		assert.Equal(t, want, layoutHint(layout), layout)
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "main_menu", MainMenu.String())
	assert.Equal(t, "awaiting_input", AwaitingInput.String())
	assert.Equal(t, "terminated", Terminated.String())
	assert.Equal(t, "unknown", State(42).String())
}
