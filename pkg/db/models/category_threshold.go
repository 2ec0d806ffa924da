package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryThreshold is the per-category minimum-quantity policy consumed by
// the low-stock rule. Items in a category without an enabled threshold are
// exempt from low-stock checks.
type CategoryThreshold struct {
	Category    string          `gorm:"column:category;type:text;primaryKey"`
	MinQuantity decimal.Decimal `gorm:"column:min_quantity;type:numeric;not null"`
	Unit        *string         `gorm:"column:unit;type:text"`
	Enabled     bool            `gorm:"column:enabled;not null;default:true"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
