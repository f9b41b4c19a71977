package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryTotalsOf(t *testing.T) {
	expenses := []Expense{
		expense(12.50, "food", "2024-01-01"),
		expense(3, "transport", "2024-01-01"),
		expense(7.50, "food", "2024-01-02"),
		expense(1, "Food", "2024-01-02"),
		expense(2, "food ", "2024-01-03"),
	}
	totals := CategoryTotalsOf(expenses)

	assert.Equal(t, []string{"food", "transport", "Food", "food "}, totals.Names())
	food, ok := totals.Get("food")
	require.True(t, ok)
	assert.Equal(t, "20.00", food.String())
	_, ok = totals.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, "26.00", totals.Sum().String())
}

func TestCategoryTotalsOfEmpty(t *testing.T) {
	totals := CategoryTotalsOf(nil)
	assert.Empty(t, totals)
	assert.Equal(t, 0, len(totals))
	assert.True(t, totals.Sum().IsZero())
}

func TestCategoryTotalsReorderInvariant(t *testing.T) {
	a := []Expense{
		expense(1.1, "a", "x"),
		expense(2.2, "b", "x"),
		expense(3.3, "a", "x"),
		expense(4.4, "c", "x"),
	}
	b := []Expense{a[3], a[2], a[1], a[0]}

	ta, tb := CategoryTotalsOf(a), CategoryTotalsOf(b)
	require.Len(t, tb, len(ta))
	for _, c := range ta {
		got, ok := tb.Get(c.Name)
		require.True(t, ok, "category %q missing", c.Name)
		assert.True(t, c.Amount.Equal(got), "category %q: %s vs %s", c.Name, c.Amount, got)
	}
}

func TestScenarioFoodTotals(t *testing.T) {
	l := NewLedger()
	l.Add(expense(12.50, "food", "2024-01-01"))
	l.Add(expense(7.50, "food", "2024-01-02"))

	totals := CategoryTotalsOf(l.Expenses)
	require.Len(t, totals, 1)
	assert.Equal(t, "food", totals[0].Name)
	assert.Equal(t, "20.00", totals[0].Amount.String())
	assert.Equal(t, "20.00", l.TotalSpent().String())
}
