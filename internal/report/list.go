// Package report renders category totals as a text list and as a
// proportional chart.
package report

import (
	"fmt"
	"io"

	"bilancio/internal/core"
)

// FormatMoney prints m with two decimals behind the currency symbol.
func FormatMoney(currency string, m core.Money) string {
	return currency + m.String()
}

// ListReport writes one "category: total" line per category in iteration
// order. Nothing is written for empty totals.
func ListReport(w io.Writer, totals core.CategoryTotals, currency string) error {
	for _, c := range totals {
		if _, err := fmt.Fprintf(w, "%s: %s\n", c.Name, FormatMoney(currency, c.Amount)); err != nil {
			return err
		}
	}
	return nil
}
