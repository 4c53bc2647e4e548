package postgres

import (
	"context"
	stdErrors "errors"

	errors "github.com/frahmantamala/expense-tracker/internal"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"gorm.io/gorm"
)

// ExpenseRepository implements expense.Repository with GORM. It is dialect
// agnostic and serves the postgres, mysql and sqlite backends.
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) List(ctx context.Context) ([]*expense.Expense, error) {
	var rows []*expenseDatamodel.Expense
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return expense.FromDataModelSlice(rows), nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*expense.Expense, error) {
	var row expenseDatamodel.Expense
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense.FromDataModel(&row), nil
}

func (r *ExpenseRepository) Create(ctx context.Context, exp *expense.Expense) error {
	row := expense.ToDataModel(exp)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	exp.ID = row.ID
	exp.CreatedAt = row.CreatedAt
	exp.UpdatedAt = row.UpdatedAt
	return nil
}

// Update writes only the patched columns and reads the row back. The read-back
// is a separate statement, so a concurrent writer may interleave.
func (r *ExpenseRepository) Update(ctx context.Context, id int64, patch expense.Patch) (*expense.Expense, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}

	updates := patchColumns(patch)
	if len(updates) > 0 {
		err := r.db.WithContext(ctx).
			Model(&expenseDatamodel.Expense{}).
			Where("id = ?", id).
			Updates(updates).Error
		if err != nil {
			return nil, err
		}
	}

	return r.GetByID(ctx, id)
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&expenseDatamodel.Expense{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func patchColumns(patch expense.Patch) map[string]interface{} {
	updates := make(map[string]interface{})
	if patch.Amount != nil {
		updates["amount"] = *patch.Amount
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.Date != nil {
		updates["date"] = *patch.Date
	}
	if patch.DescriptionSet {
		if patch.Description == nil {
			updates["description"] = nil
		} else {
			updates["description"] = *patch.Description
		}
	}
	return updates
}
