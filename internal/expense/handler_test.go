package expense_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/expense/memory"
	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Errors []struct {
				Field string `json:"field"`
				Code  string `json:"code"`
			} `json:"errors"`
		} `json:"details"`
	} `json:"error"`
}

var _ = Describe("Expense Handler", func() {
	var router *chi.Mux

	BeforeEach(func() {
		service := expense.NewService(memory.NewExpenseRepository(), nil, discardLogger,
			expense.WithClock(func() time.Time { return fixedNow }))
		handler := expense.NewHandler(transport.NewBaseHandler(discardLogger), service)

		router = chi.NewRouter()
		router.Route("/api/expenses", func(r chi.Router) {
			r.Get("/", handler.ListExpenses)
			r.Post("/", handler.CreateExpense)
			r.Get("/summary", handler.GetSummary)
			r.Get("/{id}", handler.GetExpense)
			r.Patch("/{id}", handler.UpdateExpense)
			r.Delete("/{id}", handler.DeleteExpense)
		})
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var reader *bytes.Reader
		if body == "" {
			reader = bytes.NewReader(nil)
		} else {
			reader = bytes.NewReader([]byte(body))
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decodeExpense := func(w *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		decoder := json.NewDecoder(w.Body)
		decoder.UseNumber()
		Expect(decoder.Decode(&body)).To(Succeed())
		return body
	}

	decodeError := func(w *httptest.ResponseRecorder) errorBody {
		var body errorBody
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		return body
	}

	Describe("POST /api/expenses", func() {
		It("should create the lunch expense", func() {
			w := do(http.MethodPost, "/api/expenses", `{"amount": 42.50, "category": "Food", "description": "lunch"}`)

			Expect(w.Code).To(Equal(http.StatusCreated))
			body := decodeExpense(w)
			Expect(body["id"]).To(Equal(json.Number("1")))
			Expect(body["amount"]).To(Equal(json.Number("42.50")))
			Expect(body["category"]).To(Equal("Food"))
			Expect(body["description"]).To(Equal("lunch"))
			Expect(body["date"]).To(Equal("2024-05-10T09:00:00Z"))
		})

		It("should return null for a missing description", func() {
			w := do(http.MethodPost, "/api/expenses", `{"amount": "3", "category": "Other"}`)
			Expect(w.Code).To(Equal(http.StatusCreated))
			body := decodeExpense(w)
			Expect(body).To(HaveKeyWithValue("description", BeNil()))
		})

		It("should return a structured validation error", func() {
			w := do(http.MethodPost, "/api/expenses", `{"amount": -1, "category": "Nope"}`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			body := decodeError(w)
			Expect(body.Error.Type).To(Equal("VALIDATION_ERROR"))
			Expect(body.Error.Code).To(Equal("VALIDATION_FAILED"))
			Expect(body.Error.Details.Errors).To(HaveLen(2))
			Expect(body.Error.Details.Errors[0].Field).To(Equal("amount"))
			Expect(body.Error.Details.Errors[1].Field).To(Equal("category"))
		})

		DescribeTable("malformed bodies",
			func(body string) {
				w := do(http.MethodPost, "/api/expenses", body)
				Expect(w.Code).To(Equal(http.StatusBadRequest))
				Expect(decodeError(w).Error.Code).To(Equal("INVALID_REQUEST_BODY"))
			},
			Entry("not json", `amount=1`),
			Entry("array", `[1, 2]`),
			Entry("null", `null`),
			Entry("empty", ``),
			Entry("trailing data", `{"amount": 1} {"amount": 2}`),
		)
	})

	Describe("GET /api/expenses", func() {
		It("should return an empty array initially", func() {
			w := do(http.MethodGet, "/api/expenses", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`[]`))
		})

		It("should filter by category", func() {
			do(http.MethodPost, "/api/expenses", `{"amount": 10, "category": "Food"}`)
			do(http.MethodPost, "/api/expenses", `{"amount": 5, "category": "Health"}`)

			w := do(http.MethodGet, "/api/expenses?category=Health", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			var list []map[string]interface{}
			Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
			Expect(list).To(HaveLen(1))
			Expect(list[0]["category"]).To(Equal("Health"))
		})

		It("should reject an unknown category filter", func() {
			w := do(http.MethodGet, "/api/expenses?category=Travel", "")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /api/expenses/{id}", func() {
		It("should return the expense", func() {
			do(http.MethodPost, "/api/expenses", `{"amount": 10, "category": "Food"}`)
			w := do(http.MethodGet, "/api/expenses/1", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decodeExpense(w)["amount"]).To(Equal(json.Number("10.00")))
		})

		It("should return 404 for unknown ids", func() {
			w := do(http.MethodGet, "/api/expenses/77", "")
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(decodeError(w).Error.Code).To(Equal("EXPENSE_NOT_FOUND"))
		})
	})

	Describe("PATCH /api/expenses/{id}", func() {
		BeforeEach(func() {
			do(http.MethodPost, "/api/expenses", `{"amount": 20, "category": "Food", "description": "dinner"}`)
		})

		It("should update only the supplied fields", func() {
			w := do(http.MethodPatch, "/api/expenses/1", `{"amount": "25.75"}`)
			Expect(w.Code).To(Equal(http.StatusOK))
			body := decodeExpense(w)
			Expect(body["amount"]).To(Equal(json.Number("25.75")))
			Expect(body["category"]).To(Equal("Food"))
			Expect(body["description"]).To(Equal("dinner"))
		})

		It("should clear the description with null", func() {
			w := do(http.MethodPatch, "/api/expenses/1", `{"description": null}`)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decodeExpense(w)).To(HaveKeyWithValue("description", BeNil()))
		})

		It("should return 404 for id 9999", func() {
			w := do(http.MethodPatch, "/api/expenses/9999", `{"amount": 1}`)
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(decodeError(w).Error.Type).To(Equal("NOT_FOUND"))
		})

		It("should return 400 for a malformed id", func() {
			w := do(http.MethodPatch, "/api/expenses/abc", `{"amount": 1}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeError(w).Error.Code).To(Equal("INVALID_ID"))
		})

		It("should return 400 for an invalid payload", func() {
			w := do(http.MethodPatch, "/api/expenses/1", `{"category": "food"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeError(w).Error.Details.Errors[0].Code).To(Equal("INVALID_CATEGORY"))
		})
	})

	Describe("DELETE /api/expenses/{id}", func() {
		It("should return 204 with an empty body and then 404", func() {
			do(http.MethodPost, "/api/expenses", `{"amount": 20, "category": "Food"}`)

			w := do(http.MethodDelete, "/api/expenses/1", "")
			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(w.Body.Len()).To(BeZero())

			w = do(http.MethodDelete, "/api/expenses/1", "")
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 400 for a malformed id", func() {
			w := do(http.MethodDelete, "/api/expenses/1.5", "")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /api/expenses/summary", func() {
		It("should total the filtered category", func() {
			do(http.MethodPost, "/api/expenses", `{"amount": "10.00", "category": "Food"}`)
			do(http.MethodPost, "/api/expenses", `{"amount": "20.00", "category": "Food"}`)
			do(http.MethodPost, "/api/expenses", `{"amount": "7.00", "category": "Utilities"}`)

			w := do(http.MethodGet, "/api/expenses/summary?category=Food", "")
			Expect(w.Code).To(Equal(http.StatusOK))

			var body map[string]interface{}
			decoder := json.NewDecoder(w.Body)
			decoder.UseNumber()
			Expect(decoder.Decode(&body)).To(Succeed())
			Expect(body["total"]).To(Equal(json.Number("30.00")))
			Expect(body["total_formatted"]).To(Equal("$30.00"))
			Expect(body["count"]).To(Equal(json.Number("2")))
		})
	})
})
