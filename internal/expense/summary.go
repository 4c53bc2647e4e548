package expense

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type CategoryTotal struct {
	Category   string
	Color      string
	Amount     decimal.Decimal
	Count      int
	Percentage decimal.Decimal
}

// Label renders the category with its whole-number share, e.g. "Food (60%)".
func (c CategoryTotal) Label() string {
	return fmt.Sprintf("%s (%s%%)", c.Category, c.Percentage.Round(0).String())
}

type Summary struct {
	Category   string
	Total      decimal.Decimal
	Count      int
	ByCategory []CategoryTotal
}

// Summarize totals the expenses matching filter (all of them when filter is
// empty) and breaks the total down per category in display order. An empty
// selection yields a zero total and no categories.
func Summarize(expenses []*Expense, filter string) Summary {
	summary := Summary{Category: filter, Total: decimal.Zero}

	subtotals := make(map[string]*CategoryTotal)
	for _, e := range Filter(expenses, filter) {
		summary.Total = summary.Total.Add(e.Amount)
		summary.Count++

		ct, ok := subtotals[e.Category]
		if !ok {
			ct = &CategoryTotal{Category: e.Category, Color: category.ColorOf(e.Category), Amount: decimal.Zero}
			subtotals[e.Category] = ct
		}
		ct.Amount = ct.Amount.Add(e.Amount)
		ct.Count++
	}

	// enum order first, then any legacy names alphabetically
	names := category.Names()
	var extra []string
	for name := range subtotals {
		if !category.IsValid(name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	names = append(names, extra...)

	summary.ByCategory = make([]CategoryTotal, 0, len(subtotals))
	for _, name := range names {
		ct, ok := subtotals[name]
		if !ok {
			continue
		}
		if summary.Total.IsPositive() {
			ct.Percentage = ct.Amount.Div(summary.Total).Mul(hundred).Round(2)
		}
		summary.ByCategory = append(summary.ByCategory, *ct)
	}

	return summary
}

// Filter returns the expenses in the given category, or all of them for an empty name.
func Filter(expenses []*Expense, name string) []*Expense {
	if name == "" {
		return expenses
	}
	filtered := make([]*Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Category == name {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// FormatCurrency renders an amount as US dollars, e.g. "$1,234.50".
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + "$" + b.String() + "." + frac
}

type CategoryTotalResponse struct {
	Category   string      `json:"category"`
	Color      string      `json:"color"`
	Amount     json.Number `json:"amount"`
	Count      int         `json:"count"`
	Percentage json.Number `json:"percentage"`
	Label      string      `json:"label"`
}

type SummaryResponse struct {
	Category       string                  `json:"category,omitempty"`
	Total          json.Number             `json:"total"`
	TotalFormatted string                  `json:"total_formatted"`
	Count          int                     `json:"count"`
	ByCategory     []CategoryTotalResponse `json:"by_category"`
}

func (s Summary) ToResponse() SummaryResponse {
	resp := SummaryResponse{
		Category:       s.Category,
		Total:          json.Number(s.Total.StringFixed(2)),
		TotalFormatted: FormatCurrency(s.Total),
		Count:          s.Count,
		ByCategory:     make([]CategoryTotalResponse, len(s.ByCategory)),
	}
	for i, ct := range s.ByCategory {
		resp.ByCategory[i] = CategoryTotalResponse{
			Category:   ct.Category,
			Color:      ct.Color,
			Amount:     json.Number(ct.Amount.StringFixed(2)),
			Count:      ct.Count,
			Percentage: json.Number(ct.Percentage.StringFixed(2)),
			Label:      ct.Label(),
		}
	}
	return resp
}
