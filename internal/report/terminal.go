package report

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"bilancio/internal/core"
)

const (
	barFull  = "█"
	barEmpty = "░"
)

// TerminalChart prints one proportional bar per category:
//
//	Spending Distribution
//	food      ██████████████████████████░░░░░░░░░░░░░░ 66.7%
//	transport █████████████░░░░░░░░░░░░░░░░░░░░░░░░░░░ 33.3%
type TerminalChart struct {
	Out   io.Writer
	Width int
	Title string
}

func NewTerminalChart(out io.Writer, width int) *TerminalChart {
	return &TerminalChart{Out: out, Width: width, Title: DefaultTitle}
}

func (t *TerminalChart) Render(ctx context.Context, totals core.CategoryTotals) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	width := t.Width
	if width <= 0 {
		width = 40
	}

	var b strings.Builder
	if t.Title != "" {
		fmt.Fprintf(&b, "\n%s\n", t.Title)
	}

	slices := Slices(totals)
	pad := 0
	for _, s := range slices {
		pad = max(pad, utf8.RuneCountInString(s.Name))
	}
	for _, s := range slices {
		filled := int(math.Round(s.Share / 100 * float64(width)))
		filled = min(max(filled, 0), width)
		fmt.Fprintf(&b, "%-*s %s%s %s\n",
			pad, s.Name,
			strings.Repeat(barFull, filled),
			strings.Repeat(barEmpty, width-filled),
			FormatPercent(s.Share))
	}

	_, err := io.WriteString(t.Out, b.String())
	return err
}
