package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WishlistDetail is the unique-per-item wish record with price tracking.
// Unlike Shopping/Inventory/Deleted, wishlist membership is tracked by this
// row's existence rather than a state ledger entry, an asymmetry carried
// over from the legacy schema on purpose.
type WishlistDetail struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	ItemID            uuid.UUID        `gorm:"column:item_id;type:uuid;not null;uniqueIndex:wishlist_details_item_id_key"`
	TargetPrice       *decimal.Decimal `gorm:"column:target_price;type:numeric"`
	LowestPrice       *decimal.Decimal `gorm:"column:lowest_price;type:numeric"`
	HighestPrice      *decimal.Decimal `gorm:"column:highest_price;type:numeric"`
	TrackIntervalDays int              `gorm:"column:track_interval_days;not null;default:7"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
