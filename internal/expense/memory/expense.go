package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/expense"
)

// ExpenseRepository keeps expenses in a map owned by the instance. Ids come
// from a counter that is never rewound, so deleted ids are not reused.
type ExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[int64]*expense.Expense
	nextID   int64
}

func NewExpenseRepository() *ExpenseRepository {
	return &ExpenseRepository{
		expenses: make(map[int64]*expense.Expense),
		nextID:   1,
	}
}

func (r *ExpenseRepository) List(ctx context.Context) ([]*expense.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*expense.Expense, 0, len(r.expenses))
	for _, e := range r.expenses {
		result = append(result, e.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*expense.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.expenses[id]
	if !ok {
		return nil, errors.ErrExpenseNotFound
	}
	return e.Clone(), nil
}

func (r *ExpenseRepository) Create(ctx context.Context, exp *expense.Expense) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	exp.ID = r.nextID
	exp.CreatedAt = now
	exp.UpdatedAt = now
	r.nextID++

	r.expenses[exp.ID] = exp.Clone()
	return nil
}

func (r *ExpenseRepository) Update(ctx context.Context, id int64, patch expense.Patch) (*expense.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.expenses[id]
	if !ok {
		return nil, errors.ErrExpenseNotFound
	}

	if !patch.IsEmpty() {
		e.Apply(patch)
		e.UpdatedAt = time.Now().UTC()
	}
	return e.Clone(), nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.expenses[id]; !ok {
		return false, nil
	}
	delete(r.expenses, id)
	return true, nil
}
