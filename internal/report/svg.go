package report

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"math"

	"bilancio/internal/core"
	"bilancio/internal/fsutil"
)

const titleHeight = 40

// palette cycles when there are more categories than colours.
var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// SVGChart writes the pie chart to Path as a standalone SVG document and
// prints where it went on Out.
type SVGChart struct {
	Path  string
	Size  int
	Title string
	Out   io.Writer
}

func NewSVGChart(path string, out io.Writer) *SVGChart {
	return &SVGChart{Path: path, Size: 480, Title: DefaultTitle, Out: out}
}

func (c *SVGChart) Render(ctx context.Context, totals core.CategoryTotals) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := c.Document(totals)
	if err := fsutil.WriteFileAtomic(c.Path, doc, 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	if c.Out != nil {
		if _, err := fmt.Fprintf(c.Out, "Chart saved to %s\n", c.Path); err != nil {
			return err
		}
	}
	return nil
}

// Document builds the SVG markup without touching the filesystem.
func (c *SVGChart) Document(totals core.CategoryTotals) []byte {
	size := float64(c.Size)
	if size <= 0 {
		size = 480
	}
	cx := size / 2
	cy := titleHeight + size/2
	r := size * 0.35

	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(size), num(size+titleHeight), num(size), num(size+titleHeight))
	fmt.Fprintf(&b, `  <rect width="100%%" height="100%%" fill="#ffffff"/>`+"\n")
	if c.Title != "" {
		fmt.Fprintf(&b, `  <text x="%s" y="28" text-anchor="middle" font-family="sans-serif" font-size="20">%s</text>`+"\n",
			num(cx), html.EscapeString(c.Title))
	}

	for i, s := range Slices(totals) {
		fill := palette[i%len(palette)]
		fmt.Fprintf(&b, `  <g class="slice">`+"\n")
		switch sweep := s.Sweep(); {
		case sweep >= 359.999:
			fmt.Fprintf(&b, `    <circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n", num(cx), num(cy), num(r), fill)
		case sweep > 0:
			fmt.Fprintf(&b, `    <path d="%s" fill="%s" stroke="#ffffff"/>`+"\n", wedgePath(cx, cy, r, s), fill)
		}

		lx, ly := polar(cx, cy, r*1.15, s.MidAngle())
		fmt.Fprintf(&b, `    <text x="%s" y="%s" text-anchor="%s" font-family="sans-serif" font-size="14">%s</text>`+"\n",
			num(lx), num(ly), anchor(s.MidAngle()), html.EscapeString(s.Name))
		px, py := polar(cx, cy, r*0.6, s.MidAngle())
		fmt.Fprintf(&b, `    <text x="%s" y="%s" text-anchor="middle" font-family="sans-serif" font-size="12">%s</text>`+"\n",
			num(px), num(py), FormatPercent(s.Share))
		fmt.Fprintf(&b, "  </g>\n")
	}

	b.WriteString("</svg>\n")
	return b.Bytes()
}

// wedgePath draws from the centre out to the start angle, along the arc to
// the end angle, and back. SVG's y axis points down, so a counter-clockwise
// sweep on screen uses sweep-flag 0.
func wedgePath(cx, cy, r float64, s Slice) string {
	x1, y1 := polar(cx, cy, r, s.StartAngle)
	x2, y2 := polar(cx, cy, r, s.EndAngle)
	large := 0
	if s.Sweep() > 180 {
		large = 1
	}
	return fmt.Sprintf("M %s %s L %s %s A %s %s 0 %d 0 %s %s Z",
		num(cx), num(cy), num(x1), num(y1), num(r), num(r), large, num(x2), num(y2))
}

func polar(cx, cy, r, deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	return cx + r*math.Cos(rad), cy - r*math.Sin(rad)
}

func anchor(deg float64) string {
	c := math.Cos(deg * math.Pi / 180)
	switch {
	case c > 0.1:
		return "start"
	case c < -0.1:
		return "end"
	default:
		return "middle"
	}
}

func num(f float64) string {
	if math.Abs(f) < 0.005 {
		f = 0
	}
	return fmt.Sprintf("%.2f", f)
}
