package report

import (
	"fmt"

	"bilancio/internal/core"
)

// StartAngle is where the first slice begins, in degrees counter-clockwise
// from the positive x axis.
const StartAngle = 140.0

// Slice is one category's wedge of the pie. Angles are in degrees and grow
// counter-clockwise; EndAngle may exceed 360.
type Slice struct {
	Name       string
	Amount     core.Money
	Share      float64 // percent of the summed totals, 0..100
	StartAngle float64
	EndAngle   float64
}

// Sweep is the angular extent of the slice in degrees.
func (s Slice) Sweep() float64 {
	return s.EndAngle - s.StartAngle
}

// MidAngle is the bisector of the slice, where its labels go.
func (s Slice) MidAngle() float64 {
	return (s.StartAngle + s.EndAngle) / 2
}

// Slices lays the totals out on a circle in iteration order. When the
// totals sum to zero every share is zero and every slice is empty.
func Slices(totals core.CategoryTotals) []Slice {
	sum := totals.Sum()
	out := make([]Slice, 0, len(totals))
	angle := StartAngle
	for _, c := range totals {
		s := Slice{Name: c.Name, Amount: c.Amount, StartAngle: angle, EndAngle: angle}
		if !sum.IsZero() {
			frac := c.Amount.Amount.Div(sum.Amount).InexactFloat64()
			s.Share = frac * 100
			s.EndAngle = angle + frac*360
		}
		angle = s.EndAngle
		out = append(out, s)
	}
	return out
}

// FormatPercent prints a share with one decimal place, e.g. "62.5%".
func FormatPercent(share float64) string {
	return fmt.Sprintf("%.1f%%", share)
}
