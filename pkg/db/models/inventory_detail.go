package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryDetail is one owned-stock lifecycle instance of an item.
// Re-stocking creates a new row; old rows stay as history, so the same item
// can accumulate many rows over time. IsActive mirrors the INVENTORY ledger
// entry for cheap snapshot queries.
type InventoryDetail struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ItemID         uuid.UUID       `gorm:"column:item_id;type:uuid;not null;index:inventory_details_item_id_idx"`
	Quantity       decimal.Decimal `gorm:"column:quantity;type:numeric;not null"`
	Unit           *string         `gorm:"column:unit;type:text"`
	Location       *string         `gorm:"column:location;type:text"`
	ExpirationDate *time.Time      `gorm:"column:expiration_date"`
	PurchaseDate   *time.Time      `gorm:"column:purchase_date"`
	Price          *decimal.Decimal `gorm:"column:price;type:numeric"`
	WarrantyEndDate *time.Time     `gorm:"column:warranty_end_date"`
	OpenedAt       *time.Time      `gorm:"column:opened_at"`
	ShelfLifeDays  *int            `gorm:"column:shelf_life_days"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true;index:inventory_details_active_idx"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
