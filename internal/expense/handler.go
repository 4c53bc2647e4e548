package expense

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/go-chi/chi"
)

const maxBodyBytes = 1 << 20

type ServiceAPI interface {
	ListExpenses(ctx context.Context, category string) ([]*Expense, error)
	GetExpense(ctx context.Context, id int64) (*Expense, error)
	CreateExpense(ctx context.Context, input map[string]interface{}) (*Expense, error)
	UpdateExpense(ctx context.Context, id int64, input map[string]interface{}) (*Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
	Summarize(ctx context.Context, category string) (Summary, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Service.ListExpenses(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToResponseSlice(expenses))
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := expenseID(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	expense, err := h.Service.GetExpense(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expense.ToResponse())
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	input, err := decodeObject(w, r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	expense, err := h.Service.CreateExpense(r.Context(), input)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, expense.ToResponse())
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := expenseID(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	input, err := decodeObject(w, r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	expense, err := h.Service.UpdateExpense(r.Context(), id, input)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expense.ToResponse())
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := expenseID(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.DeleteExpense(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summarize(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary.ToResponse())
}

func expenseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.ErrInvalidExpenseID
	}
	return id, nil
}

// decodeObject reads a JSON object body, keeping numbers as json.Number so
// amounts are parsed without float rounding.
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]interface{}, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.ErrInvalidRequestBody.WithCause(err)
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var input map[string]interface{}
	if err := decoder.Decode(&input); err != nil {
		return nil, errors.ErrInvalidRequestBody.WithCause(err)
	}
	if input == nil {
		return nil, errors.ErrInvalidRequestBody
	}
	if decoder.More() {
		return nil, errors.ErrInvalidRequestBody
	}
	return input, nil
}
