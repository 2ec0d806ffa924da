package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homestockhq/homestock-backend/pkg/enums"
)

// CustomRule is a user-defined reminder condition. Scope fields narrow which
// items the rule sees (exact category match, case-insensitive name substring);
// the trigger fields parameterize the type-specific predicate.
type CustomRule struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name            string           `gorm:"column:name;type:text;not null"`
	RuleType        enums.RuleType   `gorm:"column:rule_type;type:text;not null"`
	TargetCategory  *string          `gorm:"column:target_category;type:text"`
	TargetItemName  *string          `gorm:"column:target_item_name;type:text"`
	AdvanceDays     int              `gorm:"column:advance_days;not null;default:7"`
	MinQuantity     *decimal.Decimal `gorm:"column:min_quantity;type:numeric"`
	MaxQuantity     *decimal.Decimal `gorm:"column:max_quantity;type:numeric"`
	Enabled         bool             `gorm:"column:enabled;not null;default:true"`
	LastTriggeredAt *time.Time       `gorm:"column:last_triggered_at"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
