package expense

import (
	"encoding/json"
	"time"

	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int64
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Patch carries the fields of a partial update. A nil field is left unchanged;
// Description is only applied when DescriptionSet is true, so it can be cleared.
type Patch struct {
	Amount         *decimal.Decimal
	Category       *string
	Date           *time.Time
	Description    *string
	DescriptionSet bool
}

func (p Patch) IsEmpty() bool {
	return p.Amount == nil && p.Category == nil && p.Date == nil && !p.DescriptionSet
}

func NewExpense(dto CreateExpenseDTO) *Expense {
	return &Expense{
		Amount:      dto.Amount,
		Category:    dto.Category,
		Date:        dto.Date,
		Description: copyString(dto.Description),
	}
}

// Apply merges the present fields of p onto e.
func (e *Expense) Apply(p Patch) {
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.DescriptionSet {
		e.Description = copyString(p.Description)
	}
}

func (e *Expense) Clone() *Expense {
	clone := *e
	clone.Description = copyString(e.Description)
	return &clone
}

type ExpenseResponse struct {
	ID          int64       `json:"id"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Date        time.Time   `json:"date"`
	Description *string     `json:"description"`
}

func (e *Expense) ToResponse() ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Amount:      json.Number(e.Amount.StringFixed(2)),
		Category:    e.Category,
		Date:        e.Date,
		Description: e.Description,
	}
}

func ToResponseSlice(expenses []*Expense) []ExpenseResponse {
	result := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = e.ToResponse()
	}
	return result
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:          e.ID,
		Amount:      e.Amount,
		Category:    e.Category,
		Date:        e.Date,
		Description: copyString(e.Description),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:          e.ID,
		Amount:      e.Amount.Round(2),
		Category:    e.Category,
		Date:        e.Date.UTC(),
		Description: copyString(e.Description),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModelSlice(expenses []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(expenses))
	for i, e := range expenses {
		result[i] = FromDataModel(e)
	}
	return result
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
