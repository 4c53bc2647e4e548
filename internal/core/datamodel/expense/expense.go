package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(10,2);not null"`
	Category    string          `gorm:"column:category;size:64;not null;index"`
	Date        time.Time       `gorm:"column:date;not null"`
	Description *string         `gorm:"column:description;size:255"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}
