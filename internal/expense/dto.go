package expense

import (
	"fmt"
	"time"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

const (
	fieldAmount      = "amount"
	fieldCategory    = "category"
	fieldDate        = "date"
	fieldDescription = "description"

	MaxDescriptionLength = 255
)

// MaxAmount is the largest value a decimal(10,2) column holds.
var MaxAmount = decimal.RequireFromString("99999999.99")

// CreateExpenseDTO is a validated creation payload. Date is already defaulted
// and Description is nil when it was absent or null.
type CreateExpenseDTO struct {
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
	Description *string
}

// ParseCreateExpense validates an untyped creation payload. Every failing
// field is reported in the returned error; unknown keys are ignored.
func ParseCreateExpense(input map[string]interface{}, now time.Time) (*CreateExpenseDTO, error) {
	v := validation.NewValidator()
	dto := &CreateExpenseDTO{Date: normalizeTime(now)}

	if raw, ok := input[fieldAmount]; ok && raw != nil {
		dto.Amount = amountField(v, raw)
	} else {
		v.Field(fieldAmount, nil).Required()
	}

	if raw, ok := input[fieldCategory]; ok && raw != nil {
		dto.Category = categoryField(v, raw)
	} else {
		v.Field(fieldCategory, nil).Required()
	}

	if raw, ok := input[fieldDate]; ok {
		if t, ok := dateField(v, raw); ok {
			dto.Date = t
		}
	}

	if raw, ok := input[fieldDescription]; ok {
		dto.Description = descriptionField(v, raw)
	}

	if err := v.Validate(); err != nil {
		return nil, err
	}
	return dto, nil
}

// ParsePatch validates a partial update payload, checking only the fields present.
func ParsePatch(input map[string]interface{}) (Patch, error) {
	v := validation.NewValidator()
	var patch Patch

	if raw, ok := input[fieldAmount]; ok {
		if raw == nil {
			v.Field(fieldAmount, nil).Required()
		} else {
			amount := amountField(v, raw)
			patch.Amount = &amount
		}
	}

	if raw, ok := input[fieldCategory]; ok {
		if raw == nil {
			v.Field(fieldCategory, nil).Required()
		} else {
			name := categoryField(v, raw)
			patch.Category = &name
		}
	}

	if raw, ok := input[fieldDate]; ok {
		if t, ok := dateField(v, raw); ok {
			patch.Date = &t
		}
	}

	if raw, ok := input[fieldDescription]; ok {
		patch.Description = descriptionField(v, raw)
		patch.DescriptionSet = true
	}

	if err := v.Validate(); err != nil {
		return Patch{}, err
	}
	return patch, nil
}

func amountField(v *validation.ValidationBuilder, raw interface{}) decimal.Decimal {
	amount, ok := validation.ToDecimal(raw)
	if !ok {
		v.AddError(fieldAmount, "amount must be a number", errors.ErrCodeInvalidAmount)
		return decimal.Zero
	}
	amount = amount.Round(2)
	v.Field(fieldAmount, amount).
		PositiveDecimal(errors.ErrCodeInvalidAmount).
		MaxDecimal(MaxAmount, errors.ErrCodeAmountTooHigh)
	return amount
}

func categoryField(v *validation.ValidationBuilder, raw interface{}) string {
	name, ok := raw.(string)
	if !ok {
		v.AddError(fieldCategory, "category must be a string", errors.ErrCodeInvalidCategory)
		return ""
	}
	v.Field(fieldCategory, name).Required().OneOf(category.Names(), errors.ErrCodeInvalidCategory)
	return name
}

func dateField(v *validation.ValidationBuilder, raw interface{}) (time.Time, bool) {
	t, ok := validation.ToTime(raw)
	if !ok {
		v.AddError(fieldDate, fmt.Sprintf("date must be a valid date (got %v)", raw), errors.ErrCodeInvalidDate)
		return time.Time{}, false
	}
	t = normalizeTime(t)
	v.Field(fieldDate, t).NotZeroTime()
	return t, !t.IsZero()
}

func descriptionField(v *validation.ValidationBuilder, raw interface{}) *string {
	switch d := raw.(type) {
	case nil:
		return nil
	case string:
		v.Field(fieldDescription, d).MaxLength(MaxDescriptionLength)
		return &d
	default:
		v.AddError(fieldDescription, "description must be a string", errors.ErrCodeInvalidDescription)
		return nil
	}
}

// normalizeTime keeps dates comparable across backends: UTC at microsecond precision.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
