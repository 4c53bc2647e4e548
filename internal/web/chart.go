package web

import (
	"fmt"
	"math"

	"github.com/frahmantamala/expense-tracker/internal/expense"
)

const ChartRadius = 100.0

// Slice is one wedge of the category pie chart. Full is set when a single
// category holds the whole total; an SVG arc cannot draw a closed circle, so
// the template renders a <circle> instead of Path.
type Slice struct {
	Category string
	Color    string
	Label    string
	Amount   string
	Path     string
	Full     bool
}

// PieSlices lays out the summary's categories clockwise from twelve o'clock
// on a circle of radius r centred at (r, r). An empty summary has no slices.
func PieSlices(summary expense.Summary, r float64) []Slice {
	if !summary.Total.IsPositive() {
		return nil
	}

	total := summary.Total.InexactFloat64()
	slices := make([]Slice, 0, len(summary.ByCategory))
	angle := -math.Pi / 2

	for _, ct := range summary.ByCategory {
		fraction := ct.Amount.InexactFloat64() / total
		if fraction <= 0 {
			continue
		}

		s := Slice{
			Category: ct.Category,
			Color:    ct.Color,
			Label:    ct.Label(),
			Amount:   expense.FormatCurrency(ct.Amount),
		}

		if fraction >= 1 {
			s.Full = true
			slices = append(slices, s)
			break
		}

		end := angle + fraction*2*math.Pi
		largeArc := 0
		if fraction > 0.5 {
			largeArc = 1
		}
		s.Path = fmt.Sprintf("M %s %s L %s %s A %s %s 0 %d 1 %s %s Z",
			coord(r), coord(r),
			coord(r+r*math.Cos(angle)), coord(r+r*math.Sin(angle)),
			coord(r), coord(r),
			largeArc,
			coord(r+r*math.Cos(end)), coord(r+r*math.Sin(end)),
		)
		slices = append(slices, s)
		angle = end
	}

	return slices
}

func coord(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // normalise -0
	}
	return fmt.Sprintf("%.2f", v)
}
