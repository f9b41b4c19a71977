package report

import (
	"context"
	"errors"

	"bilancio/internal/core"
)

// DefaultTitle heads every chart.
const DefaultTitle = "Spending Distribution"

// ChartRenderer draws a proportional view of the totals. Callers never
// pass empty totals.
type ChartRenderer interface {
	Render(ctx context.Context, totals core.CategoryTotals) error
}

// RendererFunc adapts a plain function to ChartRenderer.
type RendererFunc func(ctx context.Context, totals core.CategoryTotals) error

func (f RendererFunc) Render(ctx context.Context, totals core.CategoryTotals) error {
	return f(ctx, totals)
}

// MultiRenderer runs every renderer in order and joins their errors. A
// failing renderer does not stop the ones after it.
type MultiRenderer []ChartRenderer

func (m MultiRenderer) Render(ctx context.Context, totals core.CategoryTotals) error {
	var errs []error
	for _, r := range m {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := r.Render(ctx, totals); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
