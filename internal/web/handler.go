package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/transport"
)

//go:embed templates/*.html
var templatesFS embed.FS

const displayDate = "Jan 2, 2006"

type ServiceAPI interface {
	ListExpenses(ctx context.Context, category string) ([]*expense.Expense, error)
	Summarize(ctx context.Context, category string) (expense.Summary, error)
}

type Handler struct {
	*transport.BaseHandler
	Service   ServiceAPI
	templates *template.Template
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) (*Handler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		templates:   tmpl,
	}, nil
}

type filterLink struct {
	Name   string
	All    bool
	Color  string
	Active bool
}

type expenseRow struct {
	ID          int64
	Amount      string
	AmountValue string
	Category    string
	Color       string
	Date        string
	DateValue   string
	Description string
	HasNote     bool
}

type pageData struct {
	Categories []category.Category
	Filters    []filterLink
	Selected   string
	Expenses   []expenseRow
	Summary    expense.SummaryResponse
	Slices     []Slice
	Radius     float64
	Diameter   float64
	Error      string
}

// Index renders the form, the filtered table and the category chart.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	selected := r.URL.Query().Get("category")
	status := http.StatusOK
	data := pageData{
		Categories: category.All(),
		Radius:     ChartRadius,
		Diameter:   ChartRadius * 2,
	}

	if selected != "" && !category.IsValid(selected) {
		status = http.StatusBadRequest
		data.Error = "Unknown category " + selected
		selected = ""
	}
	data.Selected = selected
	data.Filters = filters(selected)

	expenses, err := h.Service.ListExpenses(r.Context(), selected)
	if err != nil {
		h.renderError(w, err)
		return
	}
	summary, err := h.Service.Summarize(r.Context(), selected)
	if err != nil {
		h.renderError(w, err)
		return
	}

	data.Expenses = rows(expenses)
	data.Summary = summary.ToResponse()
	data.Slices = PieSlices(summary, ChartRadius)

	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		h.Logger.Error("index template execution failed", "error", err)
		h.renderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.Logger.Error("failed to write index page", "error", err)
	}
}

func (h *Handler) renderError(w http.ResponseWriter, err error) {
	appErr, ok := errors.IsAppError(err)
	if !ok {
		appErr = errors.NewInternalError("Internal server error", err)
	}
	h.Logger.Error("index page failed", "error", err)
	http.Error(w, appErr.Message, appErr.StatusCode)
}

func filters(selected string) []filterLink {
	links := []filterLink{{Name: "All", All: true, Color: "#455A64", Active: selected == ""}}
	for _, c := range category.All() {
		links = append(links, filterLink{
			Name:   c.Name,
			Color:  c.Color,
			Active: selected == c.Name,
		})
	}
	return links
}

func rows(expenses []*expense.Expense) []expenseRow {
	result := make([]expenseRow, len(expenses))
	for i, e := range expenses {
		row := expenseRow{
			ID:          e.ID,
			Amount:      expense.FormatCurrency(e.Amount),
			AmountValue: e.Amount.StringFixed(2),
			Category:    e.Category,
			Color:       category.ColorOf(e.Category),
			Date:        e.Date.Format(displayDate),
			DateValue:   e.Date.Format("2006-01-02"),
		}
		if e.Description != nil {
			row.Description = *e.Description
			row.HasNote = true
		}
		result[i] = row
	}
	return result
}
