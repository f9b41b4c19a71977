package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// CategoryTotals holds per-category sums in first-occurrence order.
// It is derived on demand and never persisted.
type CategoryTotals []CategoryAmount

// CategoryTotalsOf groups expenses by their raw category text in a single
// pass. "Food", "food" and "food " are three different keys.
func CategoryTotalsOf(expenses []Expense) CategoryTotals {
	index := make(map[string]int, len(expenses))
	totals := CategoryTotals{}
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			index[e.Category] = len(totals)
			totals = append(totals, CategoryAmount{Name: e.Category, Amount: e.Amount})
			continue
		}
		totals[i].Amount = totals[i].Amount.Add(e.Amount)
	}
	return totals
}

// Get returns the total for a category.
func (t CategoryTotals) Get(name string) (Money, bool) {
	for _, c := range t {
		if c.Name == name {
			return c.Amount, true
		}
	}
	return Money{}, false
}

// Sum adds up every category total.
func (t CategoryTotals) Sum() Money {
	total := ZeroMoney()
	for _, c := range t {
		total = total.Add(c.Amount)
	}
	return total
}

// Names lists categories in iteration order.
func (t CategoryTotals) Names() []string {
	names := make([]string, len(t))
	for i, c := range t {
		names[i] = c.Name
	}
	return names
}
