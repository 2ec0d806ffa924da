package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceRecord is one observed price point for an item, feeding the wishlist
// lowest/highest tracking fields.
type PriceRecord struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ItemID     uuid.UUID       `gorm:"column:item_id;type:uuid;not null;index:price_records_item_id_idx"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric;not null"`
	Source     *string         `gorm:"column:source;type:text"`
	ObservedAt time.Time       `gorm:"column:observed_at;not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
